//go:build !windows

package main

// enableDPIAwareness is a no-op outside Windows; the capture library already
// reports device pixels there.
func enableDPIAwareness() {}
