package storage

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/google/uuid"
)

// AllocateName derives the on-disk filename for an uploaded file from its
// original name: "{stem}-{token}.{ext}" where token is a freshly generated
// random UUID, making collisions across concurrent uploads practically
// impossible even for identical original names.
//
// The name is split on the FIRST dot: stem is everything before it and ext
// the segment right after it. A name with several dots therefore drops the
// trailing segments ("archive.tar.gz" keeps only "tar"). This mirrors the
// classifier's last-dot rule only for single-dot names; the two policies are
// deliberately kept independent. A name without any dot is rejected with
// common.ErrInvalidFilename.
func AllocateName(original string) (string, error) {
	parts := strings.Split(original, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q has no extension separator", common.ErrInvalidFilename, original)
	}

	stem := parts[0]
	ext := parts[1]

	return fmt.Sprintf("%s-%s.%s", stem, uuid.NewString(), ext), nil
}
