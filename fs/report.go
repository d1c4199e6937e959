package fs

import (
	"encoding/json"
	"path/filepath"

	"github.com/fwojciec/websum"
)

// ReportFilename is the name of the crawl report written to the output directory.
const ReportFilename = "crawl_report.json"

// WriteReport writes the crawl report into dir and returns its path.
func WriteReport(dir string, r *websum.CrawlReport) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "encode crawl report: %v", err)
	}
	path := filepath.Join(dir, ReportFilename)
	if _, err := writeFile(path, data); err != nil {
		return "", websum.Errorf(websum.ESTORAGE, "write %s: %v", path, err)
	}
	return path, nil
}
