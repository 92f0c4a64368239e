package collect

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hugo-lorenzo-mato/verdict/internal/core"
	"github.com/hugo-lorenzo-mato/verdict/internal/logging"
)

const maxListedImages = 10

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// imageInfo describes one diagram candidate.
type imageInfo struct {
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// VisionInspector looks for architecture diagrams next to the document and
// in the image directories of a local repository checkout. It reports what
// it finds without interpreting the pictures.
type VisionInspector struct {
	imageDirs []string
	logger    *logging.Logger
}

// NewVisionInspector creates the diagram collector.
func NewVisionInspector(imageDirs []string, logger *logging.Logger) *VisionInspector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &VisionInspector{
		imageDirs: imageDirs,
		logger:    logger.WithCollector(core.CollectorVisionInspector),
	}
}

var _ core.Collector = (*VisionInspector)(nil)

// Name implements core.Collector.
func (v *VisionInspector) Name() string {
	return core.CollectorVisionInspector
}

// Collect implements core.Collector.
func (v *VisionInspector) Collect(ctx context.Context, input core.Input) []core.Evidence {
	roots := v.searchRoots(input)
	if len(roots) == 0 {
		return []core.Evidence{core.MissingEvidence(core.GoalVisionInspection, "",
			"Vision inspection skipped: no local document or repository directory to search")}
	}

	var images []imageInfo
	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		images = append(images, v.findImages(ctx, root)...)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })

	location := roots[0]
	if len(images) == 0 {
		return []core.Evidence{core.MissingEvidence(core.GoalVisionInspection, location,
			fmt.Sprintf("No diagram images found in %s", strings.Join(roots, ", ")))}
	}

	shown := images
	if len(shown) > maxListedImages {
		shown = shown[:maxListedImages]
	}
	v.logger.Debug("diagram candidates found", "count", len(images))

	return []core.Evidence{
		core.NewEvidence(core.GoalVisionInspection, true, location,
			fmt.Sprintf("Found %d diagram image(s); contents were not interpreted", len(images)),
			0.5).WithContent(contentJSON(shown)),
	}
}

// searchRoots lists the directories to inspect: the document's directory
// and the configured image directories of a local repository path.
func (v *VisionInspector) searchRoots(input core.Input) []string {
	var roots []string
	seen := make(map[string]bool)
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}

	if doc := strings.TrimSpace(input.DocumentPath); doc != "" {
		if info, err := os.Stat(doc); err == nil && !info.IsDir() {
			add(filepath.Dir(doc))
		}
	}
	if repo := strings.TrimSpace(input.RepoURL); repo != "" {
		if info, err := os.Stat(repo); err == nil && info.IsDir() {
			for _, dir := range v.imageDirs {
				add(filepath.Join(repo, dir))
			}
		}
	}
	return roots
}

func (v *VisionInspector) findImages(ctx context.Context, root string) []imageInfo {
	var found []imageInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		found = append(found, describeImage(path))
		return nil
	})
	if err != nil {
		v.logger.Debug("image walk stopped", "root", root, "error", err)
	}
	return found
}

func describeImage(path string) imageInfo {
	info := imageInfo{Path: path}
	f, err := os.Open(path)
	if err != nil {
		return info
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return info
	}
	info.Format = format
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info
}
