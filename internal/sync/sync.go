package sync

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/gitsource"
	"github.com/conorfennell/knoldeck/internal/knol"
	"github.com/conorfennell/knoldeck/internal/parser"
	"github.com/conorfennell/knoldeck/internal/storage"
)

// Syncer imports markdown decks from the configured sources into topics.
type Syncer struct {
	db       *storage.DB
	reposDir string
	progress io.Writer
	validate *validator.Validate
}

// New creates a Syncer that clones git sources below reposDir.
func New(db *storage.DB, reposDir string, progress io.Writer) *Syncer {
	return &Syncer{
		db:       db,
		reposDir: reposDir,
		progress: progress,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Report summarizes one sync run.
type Report struct {
	Sources  int     `json:"sources"`
	Parsed   int     `json:"parsed"`
	Inserted int     `json:"inserted"`
	Orphaned int     `json:"orphaned"`
	Errors   []error `json:"-"`
}

// AddSource registers a local directory or git URL, detecting its type.
func (s *Syncer) AddSource(path string) (int64, error) {
	sourceType := storage.SourceLocal
	if gitsource.IsRemote(path) {
		sourceType = storage.SourceGit
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve source path %s: %w", path, err)
		}
		path = abs
	}
	return s.db.InsertSource(path, sourceType)
}

// RunSync iterates over all sources and reconciles them. A failing source
// is logged and skipped; only a failure to list sources aborts the run.
func (s *Syncer) RunSync() (Report, error) {
	var report Report

	slog.Info("Starting sync process for all sources...")
	sources, err := s.db.GetAllSources()
	if err != nil {
		return report, fmt.Errorf("failed to get sources: %w", err)
	}
	report.Sources = len(sources)

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with 'knoldeck source add <path/or/url.git>'")
		return report, nil
	}

	for _, source := range sources {
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		sourceToReconcile := source
		if source.Type == storage.SourceGit {
			localRepoPath, err := gitURLToLocalPath(s.reposDir, source.Path)
			if err != nil {
				slog.Error("Error determining local path for git repo", "url", source.Path, "error", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(localRepoPath), os.ModePerm); err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("creating repos directory: %w", err))
				continue
			}
			if err := gitsource.Sync(source.Path, localRepoPath, s.progress); err != nil {
				slog.Error("Error syncing git repo", "url", source.Path, "error", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			sourceToReconcile.Path = localRepoPath
		}

		s.reconcileLocalSource(&sourceToReconcile, &report)
	}

	slog.Info("Sync process complete.",
		"parsed_cards", report.Parsed,
		"inserted", report.Inserted,
		"orphaned_deleted", report.Orphaned,
		"errors", len(report.Errors),
	)
	return report, nil
}

func (s *Syncer) reconcileLocalSource(source *storage.Source, report *Report) {
	foundCardHashes := make(map[string]bool)
	topics := make(map[string]int64)

	walkErr := filepath.WalkDir(source.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			report.Errors = append(report.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, card := range fileCards {
			if err := s.validate.Struct(card); err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("invalid card in %s: %w", path, err))
				continue
			}
			if card.Topic == "" {
				card.Topic = deckName(path)
			}
			card.Hash = knol.Hash(card)
			report.Parsed++
			foundCardHashes[card.Hash] = true

			inserted, err := s.importCard(card, source.ID, topics)
			if err != nil {
				report.Errors = append(report.Errors, err)
				continue
			}
			if inserted {
				report.Inserted++
			}
		}
		return nil
	})
	if walkErr != nil {
		slog.Error("Error walking directory", "path", source.Path, "error", walkErr)
		report.Errors = append(report.Errors, walkErr)
		return
	}

	dbCards, err := s.db.GetCardsBySourceID(source.ID)
	if err != nil {
		slog.Error("Error getting cards for source", "source_id", source.ID, "error", err)
		report.Errors = append(report.Errors, err)
		return
	}

	for _, dbCard := range dbCards {
		if foundCardHashes[dbCard.Hash] {
			continue
		}
		slog.Info("Orphaned card, deleting", "hash", dbCard.Hash)
		if err := s.db.DeleteCardByHash(dbCard.Hash); err != nil {
			slog.Warn("Failed to delete orphaned card", "hash", dbCard.Hash, "error", err)
			continue
		}
		report.Orphaned++
	}

	if err := s.db.UpdateSourceLastScanned(source.ID); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}
}

// importCard inserts a card unless one with the same content already
// exists. Existing cards keep their weight and topic.
func (s *Syncer) importCard(card domain.Card, sourceID int64, topics map[string]int64) (bool, error) {
	existing, err := s.db.FindCardByHash(card.Hash)
	if err != nil {
		return false, fmt.Errorf("db check for %s: %w", card.Hash, err)
	}
	if existing != nil {
		return false, nil
	}

	topicID, ok := topics[card.Topic]
	if !ok {
		topic, err := s.db.EnsureTopic(card.Topic)
		if err != nil {
			return false, fmt.Errorf("resolving topic %q: %w", card.Topic, err)
		}
		topicID = topic.ID
		topics[card.Topic] = topicID
	}

	slog.Debug("New card found, inserting", "hash", card.Hash, "topic", card.Topic)
	if err := s.db.InsertImportedCard(card, topicID, sourceID); err != nil {
		return false, fmt.Errorf("db insert for %s: %w", card.Hash, err)
	}
	return true, nil
}

// deckName is the default topic of cards in a file: its name without extension.
func deckName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err != nil || (parsedURL.Scheme != "https" && parsedURL.Scheme != "http") {
		if strings.Contains(repoURL, "@") {
			parts := strings.Split(repoURL, ":")
			if len(parts) == 2 {
				hostAndUser := strings.Split(parts[0], "@")
				if len(hostAndUser) == 2 {
					host := hostAndUser[1]
					repoPath := strings.TrimSuffix(parts[1], ".git")
					return filepath.Join(baseDir, host, repoPath), nil
				}
			}
		}
		return "", fmt.Errorf("could not parse git URL: %s", repoURL)
	}

	sanitizedPath := strings.TrimSuffix(parsedURL.Path, ".git")
	return filepath.Join(baseDir, parsedURL.Host, sanitizedPath), nil
}
