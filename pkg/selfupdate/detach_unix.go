//go:build !windows

package selfupdate

import "syscall"

// detachedAttr starts the child in its own session so terminal signals sent to
// the parent's process group do not reach it.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
