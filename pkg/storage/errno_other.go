//go:build !unix && !windows

package storage

func isCrossDevice(err error) bool { return false }

func isTransient(err error) bool { return false }
