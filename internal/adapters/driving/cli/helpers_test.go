package cli

import (
	"context"

	"github.com/purple-ai/docuchat/internal/core/domain"
)

// --- Mock driving services ---

type mockChatService struct {
	fragments []string
	streamErr error
	readyErr  error
	gotOpts   domain.StreamOptions
	gotPrompt string
}

func (m *mockChatService) Stream(
	ctx context.Context, _ []domain.ChatMessage, prompt string, opts domain.StreamOptions,
) (*domain.ChatStream, error) {
	m.gotOpts = opts
	m.gotPrompt = prompt

	stream := domain.NewChatStream()
	go func() {
		for _, content := range m.fragments {
			if err := stream.Publish(ctx, domain.StreamFragment{Content: content}); err != nil {
				stream.Finish(err)
				return
			}
		}
		stream.Finish(m.streamErr)
	}()
	return stream, nil
}

func (m *mockChatService) ProviderName() string { return "mock (mock-model)" }

func (m *mockChatService) Ready(_ context.Context) error { return m.readyErr }

type mockIngestService struct {
	report    *domain.IngestReport
	ingestErr error
	gotName   string
	gotPath   string
	gotText   string
}

func (m *mockIngestService) Ingest(_ context.Context, documentName, text string) (*domain.IngestReport, error) {
	m.gotName = documentName
	m.gotText = text
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.IngestReport{
		IngestID:     "test-ingest",
		DocumentName: documentName,
		ChunkCount:   1,
		IndexedCount: 1,
	}, nil
}

func (m *mockIngestService) IngestFile(ctx context.Context, documentName, path, text string) (*domain.IngestReport, error) {
	m.gotPath = path
	return m.Ingest(ctx, documentName, text)
}

type mockDocumentService struct {
	statuses  []domain.DocumentStatus
	listErr   error
	deleted   int
	deleteErr error
	gotName   string
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentStatus, error) {
	return m.statuses, m.listErr
}

func (m *mockDocumentService) Delete(_ context.Context, name string) (int, error) {
	m.gotName = name
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	return m.deleted, nil
}

type mockSettingsService struct {
	settings domain.ChatSettings
	getErr   error
	saveErr  error
}

func (m *mockSettingsService) Get() (domain.ChatSettings, error) {
	if m.getErr != nil {
		return domain.DefaultChatSettings(), m.getErr
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings domain.ChatSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = settings
	return nil
}

// setupTestServices swaps in mock services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() (*mockChatService, *mockIngestService, *mockDocumentService, *mockSettingsService, func()) {
	prevChat := chatService
	prevIngest := ingestService
	prevDocuments := documentService
	prevSettings := settingsService

	chat := &mockChatService{fragments: []string{"hello"}}
	ingest := &mockIngestService{}
	documents := &mockDocumentService{}
	settings := &mockSettingsService{settings: domain.DefaultChatSettings()}
	SetServices(chat, ingest, documents, settings)

	return chat, ingest, documents, settings, func() {
		SetServices(prevChat, prevIngest, prevDocuments, prevSettings)
	}
}

// sampleStatuses builds document statuses for list output tests.
func sampleStatuses() []domain.DocumentStatus {
	statuses := make([]domain.DocumentStatus, 0, 3)
	for i, name := range []string{"alpha.txt", "beta.md", "gamma.txt"} {
		statuses = append(statuses, domain.DocumentStatus{
			Document:   domain.Document{Name: name, ChunkCount: i + 1},
			InRegistry: true,
			InIndex:    name != "beta.md",
		})
	}
	return statuses
}
