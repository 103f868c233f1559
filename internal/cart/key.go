package cart

import (
	"crypto/md5"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"
)

// DeriveKey fingerprints a customisation as "{variantID}-{hex}". The option ids
// are treated as a set and the notes are compared trimmed and lowercased, so
// resubmitting the same customisation lands on the same line.
func DeriveKey(variantID uint, optionIDs []uint, notes string) string {
	ids := normalizeOptionIDs(optionIDs)

	var canonical strings.Builder
	canonical.WriteString(strconv.FormatUint(uint64(variantID), 10))
	canonical.WriteByte('|')
	for i, id := range ids {
		if i > 0 {
			canonical.WriteByte(',')
		}
		canonical.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	canonical.WriteByte('|')
	canonical.WriteString(normalizeNotes(notes))

	// identity only, never used as a secret
	sum := md5.Sum([]byte(canonical.String()))
	return strconv.FormatUint(uint64(variantID), 10) + "-" + hex.EncodeToString(sum[:])
}

func normalizeOptionIDs(ids []uint) []uint {
	if len(ids) == 0 {
		return []uint{}
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func normalizeNotes(notes string) string {
	return strings.ToLower(strings.TrimSpace(notes))
}
