package datasource

import (
	"path/filepath"
	"strconv"
)

func baseName(path string) string { return filepath.Base(path) }

func itoa(i int) string { return strconv.Itoa(i) }
