package ragdex

import (
	"context"

	"github.com/kailas-cloud/ragdex/internal/domain"
	domcorpus "github.com/kailas-cloud/ragdex/internal/domain/corpus"
	domquery "github.com/kailas-cloud/ragdex/internal/domain/search/query"
	corpusuc "github.com/kailas-cloud/ragdex/internal/usecase/corpus"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/ragdex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/ragdex/internal/usecase/search"
)

// --- corpusUseCase mock ---

type mockCorpusUC struct {
	createFn    func(ctx context.Context, displayName, description string) (domcorpus.Corpus, error)
	getFn       func(ctx context.Context, corpusID string) (domcorpus.Corpus, error)
	listFn      func(ctx context.Context) ([]domcorpus.Corpus, error)
	updateFn    func(ctx context.Context, corpusID string, displayName, description *string) (domcorpus.Corpus, error)
	deleteFn    func(ctx context.Context, corpusID string, force bool) error
	importFn    func(ctx context.Context, corpusID string, reqs []corpusuc.ImportRequest) (domcorpus.ImportOutcome, []string, error)
	listFilesFn func(ctx context.Context, corpusID string, pageSize int, pageToken string) ([]domcorpus.File, string, error)
	getFileFn   func(ctx context.Context, corpusID, fileID string) (domcorpus.File, error)
	delFileFn   func(ctx context.Context, corpusID, fileID string) error
	inspectFn   func(ctx context.Context, corpusID, sampleQuery string, sampleSize int) (corpusuc.MetadataInspection, error)
}

func (m *mockCorpusUC) Create(ctx context.Context, displayName, description string) (domcorpus.Corpus, error) {
	return m.createFn(ctx, displayName, description)
}

func (m *mockCorpusUC) Get(ctx context.Context, corpusID string) (domcorpus.Corpus, error) {
	return m.getFn(ctx, corpusID)
}

func (m *mockCorpusUC) List(ctx context.Context) ([]domcorpus.Corpus, error) {
	return m.listFn(ctx)
}

func (m *mockCorpusUC) Update(
	ctx context.Context, corpusID string, displayName, description *string,
) (domcorpus.Corpus, error) {
	return m.updateFn(ctx, corpusID, displayName, description)
}

func (m *mockCorpusUC) Delete(ctx context.Context, corpusID string, force bool) error {
	return m.deleteFn(ctx, corpusID, force)
}

func (m *mockCorpusUC) ImportFiles(
	ctx context.Context, corpusID string, reqs []corpusuc.ImportRequest,
) (domcorpus.ImportOutcome, []string, error) {
	return m.importFn(ctx, corpusID, reqs)
}

func (m *mockCorpusUC) ListFiles(
	ctx context.Context, corpusID string, pageSize int, pageToken string,
) ([]domcorpus.File, string, error) {
	return m.listFilesFn(ctx, corpusID, pageSize, pageToken)
}

func (m *mockCorpusUC) GetFile(ctx context.Context, corpusID, fileID string) (domcorpus.File, error) {
	return m.getFileFn(ctx, corpusID, fileID)
}

func (m *mockCorpusUC) DeleteFile(ctx context.Context, corpusID, fileID string) error {
	return m.delFileFn(ctx, corpusID, fileID)
}

func (m *mockCorpusUC) InspectMetadata(
	ctx context.Context, corpusID, sampleQuery string, sampleSize int,
) (corpusuc.MetadataInspection, error) {
	return m.inspectFn(ctx, corpusID, sampleQuery, sampleSize)
}

// --- queryUseCase mock ---

type mockQueryUC struct {
	queryFn func(ctx context.Context, corpusID string, params domquery.Params) (queryuc.Result, error)
}

func (m *mockQueryUC) Query(
	ctx context.Context, corpusID string, params domquery.Params,
) (queryuc.Result, error) {
	return m.queryFn(ctx, corpusID, params)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	allFn    func(ctx context.Context, params domquery.Params) (searchuc.AggregateResult, error)
	byNameFn func(ctx context.Context, displayName string, params domquery.Params) (domcorpus.Corpus, queryuc.Result, error)
}

func (m *mockSearchUC) SearchAll(
	ctx context.Context, params domquery.Params,
) (searchuc.AggregateResult, error) {
	return m.allFn(ctx, params)
}

func (m *mockSearchUC) SearchByName(
	ctx context.Context, displayName string, params domquery.Params,
) (domcorpus.Corpus, queryuc.Result, error) {
	return m.byNameFn(ctx, displayName, params)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// --- helpers ---

func testClient(
	corpusSvc corpusUseCase,
	querySvc queryUseCase,
	searchSvc searchUseCase,
	healthSvc healthUseCase,
) *Client {
	return &Client{
		corpusSvc: corpusSvc,
		querySvc:  querySvc,
		searchSvc: searchSvc,
		healthSvc: healthSvc,
		defaults:  domain.DefaultQueryConfig(),
	}
}

func testSearchService(search searchUseCase, query queryUseCase) *SearchService {
	return &SearchService{
		search:   search,
		query:    query,
		defaults: domain.DefaultQueryConfig(),
	}
}
