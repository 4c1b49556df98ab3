package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
)

// scoreExtensions are the file types the loader can read.
var scoreExtensions = map[string]bool{
	".csv": true,
	".txt": true,
	".tsv": true,
}

// SummarySuffix is appended to the base name of an input file to name its summary.
const SummarySuffix = "_summary.csv"

// FileValidator checks score inputs and summary destinations for the CLI and the HTTP API.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// IsScoreFile reports whether path has a readable extension and is not an
// office lock file.
func IsScoreFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	return scoreExtensions[strings.ToLower(filepath.Ext(base))]
}

// ValidateScoreFile checks that path is a readable regular file of a supported type.
func (v *FileValidator) ValidateScoreFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Score file does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat score file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	if !IsScoreFile(path) {
		v.logger.Warn("Unsupported score file",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return apperrors.NewUnsupportedFileError(
			fmt.Sprintf("%s is not a delimited text file", filepath.Base(path)), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Score file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ExpandInputs resolves command line arguments into score files. An argument
// may name a file, a directory (its score files, not recursive) or a glob.
// The result is sorted and free of duplicates.
func (v *FileValidator) ExpandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
			}
			for _, entry := range entries {
				if !entry.IsDir() && IsScoreFile(entry.Name()) {
					add(filepath.Join(arg, entry.Name()))
				}
			}
		case err == nil:
			if err := v.ValidateScoreFile(arg); err != nil {
				return nil, err
			}
			add(arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", arg, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no score files match %s", arg)
			}
			for _, match := range matches {
				if IsScoreFile(match) {
					add(match)
				}
			}
		}
	}

	sort.Strings(files)
	v.logger.Info("Inputs resolved",
		slog.Int("arguments", len(args)),
		slog.Int("files", len(files)))
	return files, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// SanitizeFilename reduces name to a base name safe for a download or an
// output file: no directories, no extension, only letters, digits, '-' and '_'.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, base)
	clean = strings.Trim(clean, "_")
	if clean == "" || clean == "." {
		return "scores"
	}
	return clean
}

// SummaryPaths names the summaries of inputs inside outDir, one per input
// and in the same order. Inputs that reduce to the same name, such as
// a/match.csv and b/match.txt, get numbered names (match_2_summary.csv)
// after the first. Names are compared case-insensitively.
func SummaryPaths(outDir string, inputs []string) []string {
	bases := make([]string, len(inputs))
	natural := make(map[string]bool, len(inputs))
	for i, input := range inputs {
		bases[i] = SanitizeFilename(input)
		natural[strings.ToLower(bases[i])] = true
	}

	used := make(map[string]bool, len(inputs))
	paths := make([]string, len(inputs))
	for i, base := range bases {
		name := base
		for n := 2; used[strings.ToLower(name)] || (name != base && natural[strings.ToLower(name)]); n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}
		used[strings.ToLower(name)] = true
		paths[i] = filepath.Join(outDir, name+SummarySuffix)
	}
	return paths
}
