// Package mediatest builds small, valid media files for tests.
package mediatest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/jpeg"
	"image/png"
)

// PNG encodes a blank w x h PNG
func PNG(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEG encodes a blank w x h JPEG; a non-zero orientation adds an EXIF
// APP1 segment carrying that Orientation value.
func JPEG(w, h int, orientation uint16) []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil); err != nil {
		panic(err)
	}
	if orientation == 0 {
		return buf.Bytes()
	}

	var app1 bytes.Buffer
	app1.WriteString("Exif\x00\x00")
	app1.WriteString("MM\x00\x2a")
	put(&app1, uint32(8))      // IFD0 offset
	put(&app1, uint16(1))      // entry count
	put(&app1, uint16(0x0112)) // Orientation
	put(&app1, uint16(3))      // SHORT
	put(&app1, uint32(1))
	put(&app1, orientation)
	put(&app1, uint16(0))
	put(&app1, uint32(0)) // no next IFD

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	put(&out, uint16(app1.Len()+2))
	out.Write(app1.Bytes())
	out.Write(buf.Bytes()[2:])
	return out.Bytes()
}

// Identity is the unrotated track matrix
var Identity = [9]int32{0x10000, 0, 0, 0, 0x10000, 0, 0, 0, 0x40000000}

// Rotate90 is the track matrix phones write for portrait recordings
var Rotate90 = [9]int32{0, 0x10000, 0, -0x10000, 0, 0, 0, 0, 0x40000000}

// MP4 builds a minimal ISO-BMFF file: ftyp, then a moov holding an mvhd,
// an audio track without size and a video track of w x h.
func MP4(w, h uint32, matrix [9]int32, timescale, duration uint32) []byte {
	moov := box("moov",
		mvhd(timescale, duration),
		box("trak", tkhd(0, 0, Identity)),
		box("trak", tkhd(w, h, matrix)),
	)
	return append(box("ftyp", []byte("isom\x00\x00\x02\x00isom")), moov...)
}

func put(b *bytes.Buffer, v interface{}) {
	_ = binary.Write(b, binary.BigEndian, v)
}

func box(typ string, payload ...[]byte) []byte {
	var body bytes.Buffer
	for _, p := range payload {
		body.Write(p)
	}
	var out bytes.Buffer
	put(&out, uint32(body.Len()+8))
	out.WriteString(typ)
	out.Write(body.Bytes())
	return out.Bytes()
}

func tkhd(w, h uint32, matrix [9]int32) []byte {
	var b bytes.Buffer
	put(&b, uint32(3)) // version 0, flags enabled|in movie
	put(&b, uint32(0)) // creation
	put(&b, uint32(0)) // modification
	put(&b, uint32(1)) // track id
	put(&b, uint32(0)) // reserved
	put(&b, uint32(0)) // duration
	b.Write(make([]byte, 8))
	b.Write(make([]byte, 8)) // layer, alternate group, volume, reserved
	put(&b, matrix)
	put(&b, w<<16)
	put(&b, h<<16)
	return box("tkhd", b.Bytes())
}

func mvhd(timescale, duration uint32) []byte {
	var b bytes.Buffer
	put(&b, uint32(0)) // version 0
	put(&b, uint32(0)) // creation
	put(&b, uint32(0)) // modification
	put(&b, timescale)
	put(&b, duration)
	put(&b, int32(0x10000)) // rate
	put(&b, int16(0x100))   // volume
	b.Write(make([]byte, 10))
	put(&b, Identity)
	b.Write(make([]byte, 24)) // pre-defined
	put(&b, uint32(3))        // next track id
	return box("mvhd", b.Bytes())
}
