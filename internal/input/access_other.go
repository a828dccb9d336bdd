//go:build !darwin && !linux

package input

func checkAccess() error { return nil }
