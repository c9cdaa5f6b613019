package tools

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// extractMember returns a single file from a gzipped tarball. The
// member name is matched against the entry basename as well, so
// "doctl" finds "./doctl".
func extractMember(archive []byte, member string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, fmt.Errorf("read gzip: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		name := strings.TrimPrefix(header.Name, "./")
		if name != member && filepath.Base(name) != member {
			continue
		}

		//nolint:gosec // G110: archives come from pinned vendor URLs
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", member, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("member %q not found in archive", member)
}
