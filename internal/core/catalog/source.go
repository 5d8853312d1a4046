// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// # Source Contracts

// MetadataSource loads the comics.json object. A *docstore.File satisfies it.
type MetadataSource interface {
	Load(ctx context.Context) (map[string]Metadata, error)
}

// Lister enumerates the comic ids present in one asset location.
type Lister interface {
	IDs(ctx context.Context) ([]string, error)
}

// # Directory Listing

// DirLister lists comic ids from the file names in one directory.
//
// Subdirectories and dot files are ignored. "2024-05-01.png" and
// "2024-05-01.webp" both yield "2024-05-01", once.
type DirLister struct {
	fs  afero.Fs
	dir string
}

// NewDirLister lists dir on filesystem.
func NewDirLister(filesystem afero.Fs, dir string) *DirLister {
	return &DirLister{fs: filesystem, dir: dir}
}

// Dir returns the listed directory.
func (lister *DirLister) Dir() string {
	return lister.dir
}

// IDs implements [Lister]. A missing directory lists nothing.
func (lister *DirLister) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(lister.fs, lister.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", lister.dir, err)
	}

	seen := make(map[string]struct{}, len(infos))
	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		id := fileID(name)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

// fileID strips the extension from an asset file name.
func fileID(name string) string {
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		return name[:dot]
	}
	return name
}
