//go:build !unix

package nodeenv

import "errors"

func diskUsage(string) (DiskUsage, error) {
	return DiskUsage{}, errors.ErrUnsupported
}
