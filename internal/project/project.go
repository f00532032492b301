package project

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/tabload/internal/dataset"
	"github.com/KaramelBytes/tabload/internal/utils"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const (
	projectFileName = "project.json"
	// UploadsDir holds the copied dataset files inside a project.
	UploadsDir = "uploads"
)

// Extensions accepted by AddDataset.
var Extensions = []string{".csv", ".tsv", ".xlsx"}

// Project represents a tabload project persisted on disk.
type Project struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Datasets    map[string]*Dataset `json:"datasets"`
	Config      *ProjectConfig      `json:"config"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig overrides global analysis settings. Zero values inherit.
type ProjectConfig struct {
	PreviewRows   int `json:"preview_rows,omitempty"`
	HistogramBins int `json:"histogram_bins,omitempty"`
	CorrDigits    int `json:"corr_digits,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Datasets:    make(map[string]*Dataset),
		Config:      &ProjectConfig{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "project not found at %s", path)
		}
		return nil, errors.Wrap(err, "read project")
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, errors.Wrap(err, "parse project")
	}
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return errors.Wrap(err, "ensure dir")
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddDataset validates src, copies it into the uploads directory under a
// sanitized name and records it. A positive limit caps the file size in
// bytes. An upload with the same sanitized name replaces the previous record
// and file. The parsed table is returned for immediate summarizing.
func (p *Project) AddDataset(src string, limit int64, opt dataset.Options) (*Dataset, *dataset.Table, error) {
	base := filepath.Base(src)
	if !Supported(base) {
		return nil, nil, errors.WithStack(&UploadError{
			Filename: base,
			Reason:   "unsupported file type (want " + strings.Join(Extensions, ", ") + ")",
			kind:     KindUnsupportedFile,
		})
	}
	name := utils.SanitizeFilename(base)
	if name == "" || !Supported(name) {
		return nil, nil, errors.WithStack(&UploadError{Filename: base, Reason: "file name is empty after sanitizing", kind: KindUnsupportedFile})
	}
	info, err := os.Stat(src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stat upload")
	}
	if limit > 0 && info.Size() > limit {
		return nil, nil, errors.WithStack(&UploadError{
			Filename: base,
			Reason:   sizeReason(info.Size(), limit),
			kind:     KindFileTooLarge,
		})
	}

	// parse before copying so a malformed file never lands in uploads/
	loaded, err := dataset.LoadFile(src, opt)
	if err != nil {
		return nil, nil, err
	}
	tbl := loaded.WithName(name)

	dir := filepath.Join(p.rootDir, UploadsDir)
	if err := utils.EnsureDir(dir); err != nil {
		return nil, nil, errors.Wrap(err, "ensure uploads dir")
	}
	n, err := utils.CopyFile(filepath.Join(dir, name), src, limit)
	if err != nil {
		if errors.Is(err, utils.ErrTooLarge) {
			return nil, nil, errors.WithStack(&UploadError{Filename: base, Reason: err.Error(), kind: KindFileTooLarge})
		}
		return nil, nil, errors.Wrap(err, "copy upload")
	}

	if old, ok := p.DatasetByFilename(name); ok {
		delete(p.Datasets, old.ID)
	}
	rows, _ := tbl.Shape()
	d := &Dataset{
		ID:         uuid.NewString(),
		Filename:   name,
		Path:       filepath.Join(UploadsDir, name),
		Columns:    tbl.ColumnNames(),
		Rows:       rows,
		Size:       n,
		UploadedAt: time.Now(),
	}
	if name != base {
		d.Original = base
	}
	d.setOptions(opt)
	if p.Datasets == nil {
		p.Datasets = make(map[string]*Dataset)
	}
	p.Datasets[d.ID] = d
	p.UpdatedAt = time.Now()
	return d, tbl, nil
}

// RemoveDataset drops the record and its uploaded file.
func (p *Project) RemoveDataset(filename string) error {
	d, ok := p.DatasetByFilename(filename)
	if !ok {
		return errors.WithStack(&DatasetNotFoundError{Project: p.Name, Filename: filename})
	}
	if err := os.Remove(filepath.Join(p.rootDir, d.Path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "remove upload")
	}
	delete(p.Datasets, d.ID)
	p.UpdatedAt = time.Now()
	return nil
}

// DatasetByFilename finds a record by its stored file name.
func (p *Project) DatasetByFilename(filename string) (*Dataset, bool) {
	for _, d := range p.Datasets {
		if d.Filename == filename {
			return d, true
		}
	}
	return nil, false
}

// SortedDatasets returns the records ordered by upload time, then name.
func (p *Project) SortedDatasets() []*Dataset {
	out := make([]*Dataset, 0, len(p.Datasets))
	for _, d := range p.Datasets {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].Filename < out[j].Filename
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out
}

// LoadTable parses a stored upload with the settings recorded at upload time.
// The table is named after the file.
func (p *Project) LoadTable(filename string) (*dataset.Table, error) {
	d, ok := p.DatasetByFilename(filename)
	if !ok {
		return nil, errors.WithStack(&DatasetNotFoundError{Project: p.Name, Filename: filename})
	}
	tbl, err := dataset.LoadFile(filepath.Join(p.rootDir, d.Path), d.Options())
	if err != nil {
		return nil, err
	}
	return tbl.WithName(d.Filename), nil
}

// Supported reports whether the file extension is accepted for upload.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func sizeReason(size, limit int64) string {
	return fmt.Sprintf("file is %s, limit is %s", humanBytes(size), humanBytes(limit))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGT"[exp])
}
