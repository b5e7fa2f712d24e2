package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harrison/diskreport/internal/patterns"
)

// BuildFilename returns the report file name for a run:
//
//	YYYY-MM-DD,Extensions=<.a,.b>,Search_Folders=<folder>,Filter_Size=<limit>.xlsx
//
// Slashes and the OS path separator in the extensions and the folder
// become "_" so the name never points into a subdirectory. The size limit
// is used verbatim. Two runs with the same inputs on the same day produce
// the same name.
func BuildFilename(date time.Time, set *patterns.Set, folder, sizeLimit string) string {
	return fmt.Sprintf("%s,Extensions=%s,Search_Folders=%s,Filter_Size=%s.xlsx",
		date.Format("2006-01-02"),
		flattenPath(set.ExtensionList()),
		flattenPath(folder),
		sizeLimit,
	)
}

func flattenPath(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	return strings.ReplaceAll(s, string(os.PathSeparator), "_")
}
