// Package info describes where the structures of an OperaFS volume sit inside an image file.
package info

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/walker"
	"github.com/fatih/color"
)

type LabelInfo struct {
	LabelIdentifier string `json:"label_identifier"`
	LabelOffset     int64  `json:"label_offset"`
	LabelLength     int64  `json:"label_length"`
	LabelVersion    int    `json:"label_version"`
}

type ROMTagTableInfo struct {
	ROMTagTableOffset int64 `json:"rom_tag_table_offset"`
	ROMTagTableLength int64 `json:"rom_tag_table_length"`
	ROMTagTableCount  int   `json:"rom_tag_table_count"`
}

type DirectoryBlockInfo struct {
	DirectoryBlockPath   string `json:"directory_block_path"`
	DirectoryBlockOffset int64  `json:"directory_block_offset"`
	DirectoryBlockLength int64  `json:"directory_block_length"`
}

type FileInfo struct {
	FilePath        string `json:"file_path"`
	FileOffset      int64  `json:"file_offset"`
	FileLength      int64  `json:"file_length"`
	FileAvatar      uint32 `json:"file_avatar"`
	FileIsDirectory bool   `json:"file_is_directory"`
}

// OperaLayout lists the label, ROM tag table, directory blocks and file extents of an image by file offset.
type OperaLayout struct {
	LayoutName      string                `json:"layout_name"`
	DeviceBlockSize int64                 `json:"device_block_size"`
	Label           *LabelInfo            `json:"label"`
	ROMTagTable     *ROMTagTableInfo      `json:"rom_tag_table,omitempty"`
	DirectoryBlocks []*DirectoryBlockInfo `json:"directory_blocks"`
	Files           []*FileInfo           `json:"files"`
}

// Build walks the volume behind s and records the file offset of every structure found.
func Build(s *stream.Stream, tags []romtag.ROMTag, opts ...walker.Option) (*OperaLayout, error) {
	lbl := s.Label()
	if lbl == nil {
		return nil, walker.ErrNotSetup
	}
	geo := s.Geometry()
	l := &OperaLayout{
		LayoutName:      geo.Layout.String(),
		DeviceBlockSize: geo.DeviceBlockSize(),
		Label: &LabelInfo{
			LabelIdentifier: lbl.VolumeIdentifier(),
			LabelOffset:     s.LabelPosition(),
			LabelLength:     int64(lbl.Size()),
			LabelVersion:    int(lbl.StructureVersion),
		},
	}
	if len(tags) > 0 {
		l.ROMTagTable = &ROMTagTableInfo{
			ROMTagTableOffset: geo.DataToFile(geo.Data),
			ROMTagTableLength: int64(len(tags) * consts.ROMTAG_SIZE),
			ROMTagTableCount:  len(tags),
		}
	}

	err := walker.New(s, opts...).Walk(walker.Funcs{
		Header: func(path string, h *directory.Header, s *stream.Stream) error {
			l.AddDirectoryBlock(path, s.FileTell(), int64(h.FirstFreeByte))
			return nil
		},
		Record: func(path string, rec *directory.Record, s *stream.Stream) error {
			l.AddFile(path, geo.DataToFile(rec.AvatarOffset(lbl.BlockSize)), int64(rec.ByteCount), rec.Avatar(), rec.IsDirectory())
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// AddDirectoryBlock records a directory block. offset is the position just past its header.
func (l *OperaLayout) AddDirectoryBlock(path string, offset int64, length int64) {
	l.DirectoryBlocks = append(l.DirectoryBlocks, &DirectoryBlockInfo{
		DirectoryBlockPath:   "/" + path,
		DirectoryBlockOffset: offset - directory.DIRECTORY_HEADER_SIZE,
		DirectoryBlockLength: length,
	})
	slices.SortFunc(l.DirectoryBlocks, func(a, b *DirectoryBlockInfo) int {
		return compare(a.DirectoryBlockOffset, b.DirectoryBlockOffset)
	})
}

// AddFile appends a file or directory extent unless an identical one is already known, keeping the list sorted by
// offset.
func (l *OperaLayout) AddFile(path string, offset int64, length int64, avatar uint32, isDir bool) {
	for _, f := range l.Files {
		if f.FilePath == path && f.FileOffset == offset && f.FileLength == length {
			return
		}
	}
	l.Files = append(l.Files, &FileInfo{
		FilePath:        path,
		FileOffset:      offset,
		FileLength:      length,
		FileAvatar:      avatar,
		FileIsDirectory: isDir,
	})
	slices.SortFunc(l.Files, func(a, b *FileInfo) int {
		return compare(a.FileOffset, b.FileOffset)
	})
}

func compare(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// PrettyJSON returns a pretty-printed JSON representation of the layout.
func (l *OperaLayout) PrettyJSON() string {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON: %v", err)
	}
	return string(data)
}

// Print writes the layout in image order.
// - `verbose` includes file extents, otherwise only the filesystem metadata is listed.
// - `useColor` controls whether colored output is used.
// - `useHexOffset` prints offsets in hexadecimal if true.
func (l *OperaLayout) Print(w io.Writer, verbose bool, useColor bool, useHexOffset bool) {
	type layoutItem struct {
		Offset   int64
		Length   int64
		Detail   string
		Category string
		IsDir    *bool
	}

	var items []layoutItem

	colorMap := map[string]func(a ...interface{}) string{
		"Disc Label":      color.New(color.FgBlue, color.Bold).SprintFunc(),
		"ROM Tags":        color.New(color.FgYellow, color.Bold).SprintFunc(),
		"Directory Block": color.New(color.FgMagenta, color.Bold).SprintFunc(),
		"File":            color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
	offsetColor := color.New(color.FgGreen).SprintFunc()
	lengthColor := color.New(color.FgGreen).SprintFunc()
	isDirTrueColor := color.New(color.FgHiYellow).SprintFunc()
	isDirFalseColor := color.New(color.FgBlue).SprintFunc()
	titleColor := color.New(color.FgCyan, color.Bold).SprintFunc()

	if !useColor {
		plain := func(a ...interface{}) string { return fmt.Sprint(a...) }
		for key := range colorMap {
			colorMap[key] = plain
		}
		offsetColor = plain
		lengthColor = plain
		isDirTrueColor = plain
		isDirFalseColor = plain
		titleColor = plain
	}

	items = append(items, layoutItem{
		Offset:   l.Label.LabelOffset,
		Length:   l.Label.LabelLength,
		Detail:   fmt.Sprintf("%s (Version: %d)", l.Label.LabelIdentifier, l.Label.LabelVersion),
		Category: "Disc Label",
	})

	if l.ROMTagTable != nil {
		items = append(items, layoutItem{
			Offset:   l.ROMTagTable.ROMTagTableOffset,
			Length:   l.ROMTagTable.ROMTagTableLength,
			Detail:   fmt.Sprintf("%d tags", l.ROMTagTable.ROMTagTableCount),
			Category: "ROM Tags",
		})
	}

	for _, db := range l.DirectoryBlocks {
		items = append(items, layoutItem{
			Offset:   db.DirectoryBlockOffset,
			Length:   db.DirectoryBlockLength,
			Detail:   db.DirectoryBlockPath,
			Category: "Directory Block",
		})
	}

	if verbose {
		for _, f := range l.Files {
			isDir := f.FileIsDirectory
			items = append(items, layoutItem{
				Offset:   f.FileOffset,
				Length:   f.FileLength,
				Detail:   fmt.Sprintf("%s (Avatar: %d)", f.FilePath, f.FileAvatar),
				Category: "File",
				IsDir:    &isDir,
			})
		}
	}

	slices.SortStableFunc(items, func(a, b layoutItem) int {
		return compare(a.Offset, b.Offset)
	})

	fmt.Fprintln(w, titleColor(fmt.Sprintf("\n=== Opera Layout (%s, %d byte blocks) ===", l.LayoutName, l.DeviceBlockSize)))

	offsetWidth := 14
	categoryWidth := 16
	lengthWidth := 12
	if useHexOffset {
		offsetWidth = 18
	}

	for _, item := range items {
		offsetStr := fmt.Sprintf("Offset: %*d", offsetWidth-8, item.Offset)
		if useHexOffset {
			offsetStr = fmt.Sprintf("Offset: %#*x", offsetWidth-8, item.Offset)
		}

		isDirStr := ""
		if item.IsDir != nil {
			if *item.IsDir {
				isDirStr = fmt.Sprintf(" (IsDir: %s)", isDirTrueColor("true"))
			} else {
				isDirStr = fmt.Sprintf(" (IsDir: %s)", isDirFalseColor("false"))
			}
		}

		fmt.Fprintf(w, "[%s] [%s] [%s] %s%s\n",
			offsetColor(offsetStr),
			colorMap[item.Category](fmt.Sprintf("%-*s", categoryWidth, item.Category)),
			lengthColor(fmt.Sprintf("%*s", lengthWidth, FormatSize(item.Length))),
			item.Detail,
			isDirStr,
		)
	}

	fmt.Fprintln(w, titleColor("=============================="))
}

// FormatSize converts a size in bytes to a human-readable format.
func FormatSize(size int64) string {
	const (
		MB = 1024 * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%8.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%8.2f MB", float64(size)/float64(MB))
	default:
		return fmt.Sprintf("%8d B ", size)
	}
}
