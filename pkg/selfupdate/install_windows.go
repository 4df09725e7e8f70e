//go:build windows

package selfupdate

import "os/exec"

// killGroupOnCancel keeps the default cancel; WaitDelay bounds the wait for
// orphaned children holding the output pipe.
func killGroupOnCancel(cmd *exec.Cmd) {}
