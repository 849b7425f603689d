package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/marvinkos/pawstore/internal/domain"
	"github.com/marvinkos/pawstore/internal/logger"
	"github.com/marvinkos/pawstore/internal/media"
	"github.com/marvinkos/pawstore/internal/repository"
	"github.com/marvinkos/pawstore/internal/secrets"
)

type fakeJobStore struct {
	jobs         map[string]*domain.EnhancementJob
	transitions  []domain.JobStatus
	processErr   error
	completeErr  error
	markFailErr  error
	lastErrorMsg string
}

func (f *fakeJobStore) GetByID(_ context.Context, id string) (*domain.EnhancementJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobStore) MarkProcessing(_ context.Context, id string) error {
	if f.processErr != nil {
		return f.processErr
	}
	f.jobs[id].Status = domain.JobStatusProcessing
	f.transitions = append(f.transitions, domain.JobStatusProcessing)
	return nil
}

func (f *fakeJobStore) MarkCompleted(_ context.Context, id, url, publicID string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	job := f.jobs[id]
	job.Status = domain.JobStatusCompleted
	job.EnhancedImageURL = url
	job.EnhancedPublicID = publicID
	f.transitions = append(f.transitions, domain.JobStatusCompleted)
	return nil
}

func (f *fakeJobStore) MarkFailed(_ context.Context, id, message string) error {
	if f.markFailErr != nil {
		return f.markFailErr
	}
	job := f.jobs[id]
	job.Status = domain.JobStatusFailed
	job.Error = message
	f.lastErrorMsg = message
	f.transitions = append(f.transitions, domain.JobStatusFailed)
	return nil
}

type fakeProductStore struct {
	product   *domain.Product
	getErr    error
	appendErr error
	appended  []domain.MediaFile
	getCalls  int
}

func (f *fakeProductStore) GetByID(_ context.Context, storeID, productID string) (*domain.Product, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.product, nil
}

func (f *fakeProductStore) AppendMedia(_ context.Context, storeID, productID string, file domain.MediaFile) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, file)
	return nil
}

type fakeMediaStore struct {
	downloadErr error
	uploadErr   error
	downloads   int
	uploads     int
	lastFolder  string
	lastName    string
}

func (f *fakeMediaStore) Download(_ context.Context, rawURL string) (*media.EncodedImage, error) {
	f.downloads++
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return &media.EncodedImage{Data: "c291cmNl", MIMEType: "image/jpeg"}, nil
}

func (f *fakeMediaStore) Upload(_ context.Context, img *media.EncodedImage, folder, name string) (*media.UploadResult, error) {
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.lastFolder = folder
	f.lastName = name
	return &media.UploadResult{
		URL:      "https://cdn.example/" + folder + "/" + name + ".png",
		PublicID: folder + "/" + name,
	}, nil
}

type fakeEnhancer struct {
	err   error
	calls int
}

func (f *fakeEnhancer) Transform(_ context.Context, apiKey string, img *media.EncodedImage) (*media.EncodedImage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &media.EncodedImage{Data: "ZW5oYW5jZWQ=", MIMEType: "image/png"}, nil
}

type fakeSecrets struct {
	key   string
	err   error
	calls int
}

func (f *fakeSecrets) APIKey(_ context.Context) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.key, nil
}

func validJob() *domain.EnhancementJob {
	return &domain.EnhancementJob{
		ID:          "job-1",
		Status:      domain.JobStatusPending,
		ImageURL:    "https://cdn.example/store1/a.jpg",
		MediaFileID: "m1",
		StoreID:     "s1",
		ProductID:   "p1",
	}
}

type pipeline struct {
	svc      *EnhancementService
	jobs     *fakeJobStore
	products *fakeProductStore
	media    *fakeMediaStore
	enhancer *fakeEnhancer
	secrets  *fakeSecrets
}

func newPipeline(job *domain.EnhancementJob) *pipeline {
	jobs := &fakeJobStore{jobs: map[string]*domain.EnhancementJob{}}
	if job != nil {
		jobs.jobs[job.ID] = job
	}
	products := &fakeProductStore{product: &domain.Product{ID: "p1", StoreID: "s1", Name: "Chew Toy"}}
	mediaStore := &fakeMediaStore{}
	enhancer := &fakeEnhancer{}
	secretProvider := &fakeSecrets{key: "test-key"}

	svc := NewEnhancementService(jobs, products, mediaStore, enhancer, secretProvider, logger.New(nil))
	return &pipeline{svc: svc, jobs: jobs, products: products, media: mediaStore, enhancer: enhancer, secrets: secretProvider}
}

func TestProcessJob_Success(t *testing.T) {
	job := validJob()
	p := newPipeline(job)

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusCompleted {
		t.Fatalf("expected completed, got %q (message: %s)", outcome.Status, outcome.Message)
	}
	if outcome.Skipped {
		t.Error("expected outcome not to be skipped")
	}

	wantTransitions := []domain.JobStatus{domain.JobStatusProcessing, domain.JobStatusCompleted}
	if len(p.jobs.transitions) != len(wantTransitions) {
		t.Fatalf("expected transitions %v, got %v", wantTransitions, p.jobs.transitions)
	}
	for i, s := range wantTransitions {
		if p.jobs.transitions[i] != s {
			t.Errorf("transition %d: expected %q, got %q", i, s, p.jobs.transitions[i])
		}
	}

	stored := p.jobs.jobs[job.ID]
	if stored.EnhancedImageURL == "" || stored.EnhancedPublicID == "" {
		t.Errorf("expected enhancement result on job, got %+v", stored)
	}

	if p.media.lastFolder != "products/s1" {
		t.Errorf("expected upload folder products/s1, got %q", p.media.lastFolder)
	}
	if p.media.lastName != "a_enhanced" {
		t.Errorf("expected upload name a_enhanced, got %q", p.media.lastName)
	}

	if len(p.products.appended) != 1 {
		t.Fatalf("expected one appended media reference, got %d", len(p.products.appended))
	}
	appended := p.products.appended[0]
	if appended.EnhancedFrom != "m1" {
		t.Errorf("expected enhanced_from m1, got %q", appended.EnhancedFrom)
	}
	if !appended.IsEnhanced {
		t.Error("expected is_enhanced true")
	}
	if appended.Type != domain.MediaTypeImage {
		t.Errorf("expected type image, got %q", appended.Type)
	}
	if appended.EnhancedAt == nil {
		t.Error("expected enhanced_at timestamp")
	}
}

func TestProcessJob_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.EnhancementJob)
	}{
		{"image url", func(j *domain.EnhancementJob) { j.ImageURL = "" }},
		{"media file id", func(j *domain.EnhancementJob) { j.MediaFileID = "" }},
		{"store id", func(j *domain.EnhancementJob) { j.StoreID = "" }},
		{"product id", func(j *domain.EnhancementJob) { j.ProductID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(job)
			p := newPipeline(job)

			outcome := p.svc.ProcessJob(context.Background(), job.ID)

			if outcome.Status != domain.JobStatusFailed {
				t.Fatalf("expected failed, got %q", outcome.Status)
			}
			if !strings.Contains(outcome.Message, "missing required field") {
				t.Errorf("unexpected message: %s", outcome.Message)
			}
			if p.secrets.calls != 0 || p.media.downloads != 0 || p.media.uploads != 0 || p.enhancer.calls != 0 || p.products.getCalls != 0 {
				t.Error("expected no collaborator calls on validation failure")
			}
		})
	}
}

func TestProcessJob_ClaimLostToConcurrentDelivery(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.jobs.processErr = repository.ErrJobNotPending

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if !outcome.Skipped {
		t.Fatal("expected skipped outcome when the claim is lost")
	}
	if outcome.Status != domain.JobStatusProcessing {
		t.Errorf("expected processing status, got %q", outcome.Status)
	}
	if p.secrets.calls != 0 || p.media.downloads != 0 || p.media.uploads != 0 || p.enhancer.calls != 0 {
		t.Error("expected no collaborator calls after losing the claim")
	}
	if len(p.jobs.transitions) != 0 {
		t.Errorf("expected no status writes, got %v", p.jobs.transitions)
	}
}

func TestProcessJob_SecretNotConfigured(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.secrets.key = ""
	p.secrets.err = secrets.ErrKeyNotConfigured

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusFailed {
		t.Fatalf("expected failed, got %q", outcome.Status)
	}
	if outcome.Message != "Gemini API key not configured" {
		t.Errorf("expected exact configuration error message, got %q", outcome.Message)
	}
	if p.jobs.jobs[job.ID].Error != "Gemini API key not configured" {
		t.Errorf("expected error persisted on job, got %q", p.jobs.jobs[job.ID].Error)
	}
	if p.media.downloads != 0 || p.media.uploads != 0 || p.enhancer.calls != 0 {
		t.Error("expected no media or engine calls when the key is unresolved")
	}
}

func TestProcessJob_NoEnhancedImage(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.enhancer.err = fmt.Errorf("no enhanced image was returned: no part carries inline image data")

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusFailed {
		t.Fatalf("expected failed, got %q", outcome.Status)
	}
	if !strings.Contains(outcome.Message, "no enhanced image was returned") {
		t.Errorf("unexpected message: %s", outcome.Message)
	}
	if p.media.uploads != 0 {
		t.Error("expected no upload after engine failure")
	}
}

func TestProcessJob_ProductGone(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.products.appendErr = fmt.Errorf("%w: p1", repository.ErrProductNotFound)

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusFailed {
		t.Fatalf("expected failed, got %q", outcome.Status)
	}
	if !strings.Contains(outcome.Message, "product not found") {
		t.Errorf("unexpected message: %s", outcome.Message)
	}
	// The upload precedes the product check; the asset is left behind
	if p.media.uploads != 1 {
		t.Errorf("expected upload to have happened before product check, got %d uploads", p.media.uploads)
	}
}

func TestProcessJob_DownloadFailure(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.media.downloadErr = errors.New("failed to download image: HTTP 404")

	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusFailed {
		t.Fatalf("expected failed, got %q", outcome.Status)
	}
	if p.enhancer.calls != 0 {
		t.Error("expected no engine call after download failure")
	}
}

func TestProcessJob_TerminalStatusIsNoOp(t *testing.T) {
	for _, status := range []domain.JobStatus{domain.JobStatusCompleted, domain.JobStatusFailed, domain.JobStatusProcessing} {
		t.Run(string(status), func(t *testing.T) {
			job := validJob()
			job.Status = status
			p := newPipeline(job)

			outcome := p.svc.ProcessJob(context.Background(), job.ID)

			if !outcome.Skipped {
				t.Fatal("expected redelivery to be skipped")
			}
			if outcome.Status != status {
				t.Errorf("expected status %q echoed, got %q", status, outcome.Status)
			}
			if len(p.jobs.transitions) != 0 {
				t.Errorf("expected no status writes, got %v", p.jobs.transitions)
			}
			if p.secrets.calls != 0 || p.media.downloads != 0 || p.enhancer.calls != 0 {
				t.Error("expected no collaborator calls on skip")
			}
		})
	}
}

func TestProcessJob_JobNotFound(t *testing.T) {
	p := newPipeline(nil)

	outcome := p.svc.ProcessJob(context.Background(), "missing")

	if !outcome.Skipped {
		t.Error("expected missing job to be skipped")
	}
	if p.secrets.calls != 0 {
		t.Error("expected no collaborator calls")
	}
}

func TestProcessJob_SecondaryWriteFailureIsSuppressed(t *testing.T) {
	job := validJob()
	p := newPipeline(job)
	p.enhancer.err = errors.New("engine unavailable")
	p.jobs.markFailErr = errors.New("database unavailable")

	// Must not panic or propagate; the job is simply left in processing
	outcome := p.svc.ProcessJob(context.Background(), job.ID)

	if outcome.Status != domain.JobStatusFailed {
		t.Fatalf("expected failed outcome, got %q", outcome.Status)
	}
	if p.jobs.jobs[job.ID].Status != domain.JobStatusProcessing {
		t.Errorf("expected job left in processing, got %q", p.jobs.jobs[job.ID].Status)
	}
}
