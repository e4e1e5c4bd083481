//go:build linux

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// restoreCooked turns echo, canonical input and signals back on through /dev/tty
// /dev/tty still reaches the terminal when stdin is redirected. Errors are ignored.
func restoreCooked() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()

	fd := int(tty.Fd())
	tios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return
	}
	tios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
	tios.Iflag |= unix.ICRNL
	_ = unix.IoctlSetTermios(fd, unix.TCSETS, tios)
}
