//go:build !linux

package rowstat

import "os"

func fadvise(*os.File) {}
