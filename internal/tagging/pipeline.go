// Package tagging runs the batch pipeline that tags workspace files with model output.
package tagging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oukeidos/aitag/internal/apperrors"
	"github.com/oukeidos/aitag/internal/logger"
	"github.com/oukeidos/aitag/internal/replicate"
	"github.com/oukeidos/aitag/internal/thumbnail"
	"github.com/oukeidos/aitag/internal/workspace"
)

// DefaultAttribute is the attribute the pipeline writes tags into.
const DefaultAttribute = "AI-Tags"

// User-facing notification texts.
const (
	titleCannotProcess = "Cannot process image"
	msgCannotProcess   = "PNG file could not be generated"
	titleFailed        = "Something went wrong"
	msgInvalidToken    = "Your API token is not working. You have to get a new token from Replicate and paste it in the Action settings."
	msgSeeConsole      = "Open the console for more information"
)

// AttributeStore is the attribute database the pipeline reads and writes.
type AttributeStore interface {
	GetAttribute(ctx context.Context, name string) (*workspace.Attribute, error)
	CreateAttribute(ctx context.Context, name string, typ workspace.AttributeType) (*workspace.Attribute, error)
	AttributeTags(ctx context.Context, attr *workspace.Attribute) ([]workspace.Tag, error)
	AddAttributeTags(ctx context.Context, attr *workspace.Attribute, tags []workspace.Tag) error
	SetAttributeValue(ctx context.Context, path string, attr *workspace.Attribute, tags []workspace.Tag) error
}

// ThumbnailGenerator renders proxy images into a directory.
type ThumbnailGenerator interface {
	GenerateThumbnails(ctx context.Context, paths []string, outputDir string, opts thumbnail.Options) error
}

// Notifier shows toast-style messages to the user.
type Notifier interface {
	ShowError(title, message string)
	ShowSuccess(title, message string)
}

// Progress is an indeterminate progress indicator.
type Progress interface {
	SetText(text string)
	Finish()
}

// ProgressFactory starts a new indeterminate progress indicator.
type ProgressFactory func(title, text string) Progress

// Status is the result of processing one file.
type Status string

const (
	StatusTagged  Status = "tagged"
	StatusSkipped Status = "skipped"
)

// Outcome describes what happened to one selected file.
type Outcome struct {
	Path   string
	Status Status
	// Tags is the model's tag set for the file.
	Tags []string
	// Added lists tag names that were new to the vocabulary.
	Added []string
}

// Report summarises a batch. Failed is the path that stopped the batch, if any.
type Report struct {
	Outcomes []Outcome
	Failed   string
}

// Count returns how many outcomes have status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Pipeline tags files one after another. Any failure stops the batch.
type Pipeline struct {
	Store       AttributeStore
	Thumbnails  ThumbnailGenerator
	Tagger      replicate.Tagger
	Notifier    Notifier
	NewProgress ProgressFactory
	// Rand picks colours for new tags; nil uses the global source.
	Rand RandSource
	// WorkspaceID is forwarded to the thumbnail generator.
	WorkspaceID string
	// TempDir is the parent of per-file proxy directories; empty uses os.TempDir.
	TempDir string
}

// Validate checks that every collaborator is set.
func (p *Pipeline) Validate() error {
	switch {
	case p.Store == nil:
		return fmt.Errorf("attribute store is required")
	case p.Thumbnails == nil:
		return fmt.Errorf("thumbnail generator is required")
	case p.Tagger == nil:
		return fmt.Errorf("tagger is required")
	case p.Notifier == nil:
		return fmt.Errorf("notifier is required")
	case p.NewProgress == nil:
		return fmt.Errorf("progress factory is required")
	}
	return nil
}

// EnsureAttribute returns the named multiple-choice tag attribute, creating it if absent.
func EnsureAttribute(ctx context.Context, store AttributeStore, name string) (*workspace.Attribute, error) {
	attr, err := store.GetAttribute(ctx, name)
	if err == nil {
		return attr, nil
	}
	if !errors.Is(err, workspace.ErrNotFound) {
		return nil, err
	}
	return store.CreateAttribute(ctx, name, workspace.MultipleChoiceTag)
}

// Run processes paths in order. On the first fatal error the user is notified,
// progress is finished and the error is returned; files already tagged stay tagged.
func (p *Pipeline) Run(ctx context.Context, attr *workspace.Attribute, paths []string) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid pipeline: %w", err)
	}
	progress := p.NewProgress("Generating Tags", "Processing")
	defer progress.Finish()

	var report Report
	for _, path := range paths {
		outcome, err := p.processFile(ctx, progress, attr, path)
		if err != nil {
			report.Failed = path
			p.notifyFailure(err)
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	logger.Info("Tagging finished", "tagged", report.Count(StatusTagged), "skipped", report.Count(StatusSkipped))
	return report, nil
}

// Result is delivered by Start when the batch ends.
type Result struct {
	Report Report
	Err    error
}

// Start runs the batch on its own goroutine and delivers the result on the returned channel.
// A panic inside the batch is recovered and reported like any other failure.
func (p *Pipeline) Start(ctx context.Context, attr *workspace.Attribute, paths []string) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered panic", "scope", "tagging.run", "panic", fmt.Sprint(r))
				if p.Notifier != nil {
					p.Notifier.ShowError(titleFailed, msgSeeConsole)
				}
				done <- Result{Err: fmt.Errorf("tagging panicked: %v", r)}
			}
		}()
		report, err := p.Run(ctx, attr, paths)
		done <- Result{Report: report, Err: err}
	}()
	return done
}

func (p *Pipeline) processFile(ctx context.Context, progress Progress, attr *workspace.Attribute, path string) (Outcome, error) {
	if !Allowed(path) {
		logger.Info("Skipping file without an allowed extension", "path", path)
		return Outcome{Path: path, Status: StatusSkipped}, nil
	}
	name := displayName(path)

	imagePath, release, err := p.resolveImage(ctx, progress, path, name)
	if err != nil {
		logger.Error("Cannot process image", "path", path, "error", err)
		return Outcome{}, err
	}
	defer release()

	progress.SetText(fmt.Sprintf("Requesting tags from Replicate for %s. This can take some time.", name))
	out, err := p.Tagger.Predict(ctx, imagePath)
	if err != nil {
		logger.Error("Error processing AI tags", "file", filepath.Base(path), "error", err, "cause", errors.Unwrap(err))
		return Outcome{}, fmt.Errorf("tagging %s: %w", filepath.Base(path), err)
	}
	names := ParseTags(out)
	logger.Debug("Model tags", "path", path, "tags", names)

	vocab, err := p.Store.AttributeTags(ctx, attr)
	if err != nil {
		return Outcome{}, fmt.Errorf("reading vocabulary: %w", err)
	}
	merged, added := MergeVocabulary(vocab, names, p.rand())
	// Only new names are written; the store keeps names another batch committed meanwhile.
	if err := p.Store.AddAttributeTags(ctx, attr, added); err != nil {
		return Outcome{}, fmt.Errorf("writing vocabulary: %w", err)
	}
	if err := p.Store.SetAttributeValue(ctx, path, attr, Assignment(merged, names)); err != nil {
		return Outcome{}, fmt.Errorf("writing tags of %s: %w", filepath.Base(path), err)
	}

	outcome := Outcome{Path: path, Status: StatusTagged, Tags: names}
	for _, t := range added {
		outcome.Added = append(outcome.Added, t.Name)
	}
	logger.Info("File tagged", "path", path, "tags", len(names), "new", len(added))
	return outcome, nil
}

// resolveImage returns an image the model can read. Proxies live in a fresh
// directory that the returned release func removes.
func (p *Pipeline) resolveImage(ctx context.Context, progress Progress, path, name string) (string, func(), error) {
	if DirectlyViewable(path) {
		return path, func() {}, nil
	}

	progress.SetText("Generating proxy image for " + name)
	dir, err := os.MkdirTemp(p.TempDir, "aitag-proxy-*")
	if err != nil {
		return "", nil, apperrors.New(apperrors.KindGeneration, msgCannotProcess, fmt.Errorf("failed to create temp dir: %w", err))
	}
	release := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("Failed to remove proxy directory", "dir", dir, "error", err)
		}
	}

	genErr := p.Thumbnails.GenerateThumbnails(ctx, []string{path}, dir, thumbnail.Options{
		Detail:      true,
		Preview:     false,
		WorkspaceID: p.WorkspaceID,
	})
	imagePath := thumbnail.OutputPath(dir, path, thumbnail.DetailSuffix)
	if _, statErr := os.Stat(imagePath); statErr != nil {
		release()
		return "", nil, apperrors.New(apperrors.KindGeneration, msgCannotProcess, errors.Join(genErr, statErr))
	}
	if genErr != nil {
		logger.Warn("Thumbnail generator reported an error but produced output", "path", path, "error", genErr)
	}
	return imagePath, release, nil
}

func (p *Pipeline) notifyFailure(err error) {
	kind, _ := apperrors.KindOf(err)
	switch kind {
	case apperrors.KindGeneration:
		p.Notifier.ShowError(titleCannotProcess, msgCannotProcess)
	case apperrors.KindAuth:
		p.Notifier.ShowError(titleFailed, msgInvalidToken)
	default:
		p.Notifier.ShowError(titleFailed, msgSeeConsole)
	}
}

func (p *Pipeline) rand() RandSource {
	if p.Rand != nil {
		return p.Rand
	}
	return globalRand{}
}
