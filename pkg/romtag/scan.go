package romtag

import (
	"fmt"

	"github.com/bgrewell/opera-kit/pkg/consts"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/stream"
)

// Scan reads the ROM tag table from the block following the disc label. Labels declaring an explicit tag count get
// exactly that many tags. Otherwise, including M2 labels declaring zero tags, the table is read until the all zero
// sentinel tag or the end of the block. The stream cursor is restored before returning.
func Scan(s *stream.Stream, lbl *label.DiscLabel) ([]ROMTag, error) {
	restore := s.Save()
	defer restore()

	if err := s.DataBlockSeek(consts.ROMTAG_TABLE_BLOCK); err != nil {
		return nil, err
	}

	if lbl.IsM2() && lbl.NumROMTags > 0 {
		return scanCount(s, lbl.NumROMTags)
	}
	return scanSentinel(s, int(lbl.BlockSize)/consts.ROMTAG_SIZE)
}

func scanCount(s *stream.Stream, count uint32) ([]ROMTag, error) {
	tags := make([]ROMTag, 0, count)
	for i := uint32(0); i < count; i++ {
		tag, err := Read(s)
		if err != nil {
			return tags, fmt.Errorf("failed to read rom tag %d of %d: %w", i+1, count, err)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func scanSentinel(s *stream.Stream, limit int) ([]ROMTag, error) {
	var tags []ROMTag
	for i := 0; i < limit; i++ {
		tag, err := Read(s)
		if err != nil {
			return tags, fmt.Errorf("failed to read rom tag %d: %w", i+1, err)
		}
		if tag.IsSentinel() {
			break
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// Patch overwrites rec.ByteCount with the size of the first RSA node tag whose offset, taken relative to the tag
// table block, matches any of the record's avatars. Tags of other subsystems and tags with a zero size never patch.
// It reports whether the record was changed.
func Patch(rec *directory.Record, tags []ROMTag) bool {
	for _, tag := range tags {
		if !tag.SizesFile() {
			continue
		}
		for _, avatar := range rec.AvatarList {
			if tag.Offset+consts.ROMTAG_TABLE_BLOCK == avatar {
				rec.ByteCount = tag.Size
				return true
			}
		}
	}
	return false
}
