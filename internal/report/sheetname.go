package report

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/harrison/diskreport/internal/models"
)

// MaxSheetNameLength is the workbook limit, counted in UTF-16 code units.
const MaxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_",
	"*", "_", "[", "_", "]", "_",
)

// SheetName converts an owner string into a valid worksheet name.
// Forbidden characters and a leading or trailing apostrophe become "_",
// the result is cut to MaxSheetNameLength and an empty name becomes "_".
func SheetName(owner string) string {
	name := sheetNameReplacer.Replace(displayText(owner))
	if strings.HasPrefix(name, "'") {
		name = "_" + name[1:]
	}
	name = truncateUTF16(name, MaxSheetNameLength)
	if strings.HasSuffix(name, "'") {
		name = name[:len(name)-1] + "_"
	}
	if name == "" {
		return "_"
	}
	return name
}

func truncateUTF16(s string, limit int) string {
	units := 0
	for i, r := range s {
		n := len(utf16.Encode([]rune{r}))
		if units+n > limit {
			return s[:i]
		}
		units += n
	}
	return s
}

// sheetNamer hands out sheet names and refuses names that the workbook
// would consider equal.
type sheetNamer struct {
	taken map[string]string // folded name -> owner that claimed it
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{
		taken: map[string]string{strings.ToLower(models.AllRecordsSheet): models.AllRecordsSheet},
	}
}

func (n *sheetNamer) claim(owner string) (string, error) {
	name := SheetName(owner)
	key := strings.ToLower(name)
	if prev, ok := n.taken[key]; ok {
		return "", fmt.Errorf("%w: owners %q and %q both map to sheet %q",
			models.ErrSheetNameCollision, prev, owner, name)
	}
	n.taken[key] = owner
	return name, nil
}
