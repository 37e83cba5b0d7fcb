package security

import "os"

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
