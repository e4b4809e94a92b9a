package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/blogem/audit-console/auditview"
	"github.com/blogem/audit-console/models"
	"github.com/blogem/audit-console/repositories/mocks"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, entry *models.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

// AuditServiceTestSuite is a test suite for the audit service
type AuditServiceTestSuite struct {
	suite.Suite
	service       AuditService
	mockAuditRepo *mocks.MockAuditRepository
	publisher     *mockPublisher
	ctx           context.Context
}

// SetupTest sets up the test suite before each test
func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockAuditRepo = mocks.NewMockAuditRepository(suite.T())
	suite.publisher = &mockPublisher{}
	suite.publisher.Test(suite.T())
	suite.service = NewAuditService(suite.mockAuditRepo, suite.publisher)
	suite.ctx = context.Background()
}

func (suite *AuditServiceTestSuite) TearDownTest() {
	suite.publisher.AssertExpectations(suite.T())
}

// TestRecord_StampsEntry tests that Record fills in ID, timestamp, source and category
func (suite *AuditServiceTestSuite) TestRecord_StampsEntry() {
	entry := &models.AuditLogEntry{EventType: "post_login", Username: "ops@example.com"}

	suite.mockAuditRepo.EXPECT().Create(suite.ctx, entry).Return(nil)
	suite.publisher.On("Publish", suite.ctx, entry).Return(nil)

	err := suite.service.Record(suite.ctx, entry)

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), entry.EventID)
	assert.False(suite.T(), entry.Timestamp.IsZero())
	assert.Equal(suite.T(), models.SourceConsole, entry.Source)
	assert.Equal(suite.T(), string(auditview.CategoryLogin), entry.EventCategory)
}

// TestRecord_PublishFailureIsNotFatal tests that a publisher error does not fail Record
func (suite *AuditServiceTestSuite) TestRecord_PublishFailureIsNotFatal() {
	entry := &models.AuditLogEntry{EventType: "delete_audit"}

	suite.mockAuditRepo.EXPECT().Create(suite.ctx, entry).Return(nil)
	suite.publisher.On("Publish", suite.ctx, entry).Return(errors.New("broker down"))

	assert.NoError(suite.T(), suite.service.Record(suite.ctx, entry))
}

// TestRecord_RepositoryError tests that storage failures are returned and nothing is published
func (suite *AuditServiceTestSuite) TestRecord_RepositoryError() {
	entry := &models.AuditLogEntry{EventType: "user_update"}

	suite.mockAuditRepo.EXPECT().Create(suite.ctx, entry).Return(errors.New("disk full"))

	err := suite.service.Record(suite.ctx, entry)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "disk full")
	suite.publisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

// TestIngest_StoresVerbatimRecord tests ingestion of a loosely typed record
func (suite *AuditServiceTestSuite) TestIngest_StoresVerbatimRecord() {
	payload := `{
		"user_id": 42,
		"event_type": "WALLET_UPDATE",
		"timestamp": "2025-10-06T09:30:00Z",
		"request_body": {"password": "secret"},
		"ip_address": "::ffff:10.0.0.5"
	}`

	suite.mockAuditRepo.EXPECT().Create(suite.ctx, mock.MatchedBy(func(e *models.AuditLogEntry) bool {
		return e.Source == models.SourceIngest &&
			e.UserID == "42" &&
			e.EventType == "WALLET_UPDATE" &&
			e.EventCategory == "update" &&
			e.RequestBody == `{"password": "secret"}` &&
			!strings.Contains(e.RawRecord, "\n")
	})).Return(nil)
	suite.publisher.On("Publish", suite.ctx, mock.AnythingOfType("*models.AuditLogEntry")).Return(nil)

	entry, err := suite.service.Ingest(suite.ctx, []byte(payload))

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), time.Date(2025, 10, 6, 9, 30, 0, 0, time.UTC), entry.Timestamp)
}

// TestIngest_NonStringEventTypeMatchesDisplayedCategory tests that the stored
// category agrees with the badge shown for the same row
func (suite *AuditServiceTestSuite) TestIngest_NonStringEventTypeMatchesDisplayedCategory() {
	var stored *models.AuditLogEntry
	suite.mockAuditRepo.EXPECT().Create(suite.ctx, mock.AnythingOfType("*models.AuditLogEntry")).
		Run(func(_ context.Context, e *models.AuditLogEntry) { stored = e }).
		Return(nil)
	suite.publisher.On("Publish", suite.ctx, mock.AnythingOfType("*models.AuditLogEntry")).Return(nil)

	_, err := suite.service.Ingest(suite.ctx, []byte(`{"event_type": {"action": "login"}, "user_id": "u-1"}`))

	assert.NoError(suite.T(), err)
	if assert.NotNil(suite.T(), stored) {
		view := NewAuditLogView(stored)
		assert.Equal(suite.T(), string(auditview.CategoryDefault), stored.EventCategory)
		assert.Equal(suite.T(), string(view.Category), stored.EventCategory)
		assert.Equal(suite.T(), auditview.UnknownEvent, view.EventLabel)
	}
}

// TestRecord_KeepsPresetCategory tests that a category set by the caller is not reclassified
func (suite *AuditServiceTestSuite) TestRecord_KeepsPresetCategory() {
	entry := &models.AuditLogEntry{EventType: `{"action":"login"}`, EventCategory: "default"}

	suite.mockAuditRepo.EXPECT().Create(suite.ctx, entry).Return(nil)
	suite.publisher.On("Publish", suite.ctx, entry).Return(nil)

	assert.NoError(suite.T(), suite.service.Record(suite.ctx, entry))
	assert.Equal(suite.T(), "default", entry.EventCategory)
}

// TestIngest_RejectsNonObjects tests that malformed input is rejected before storage
func (suite *AuditServiceTestSuite) TestIngest_RejectsNonObjects() {
	for _, payload := range []string{"", "[]", "null", `{"user_id":`} {
		_, err := suite.service.Ingest(suite.ctx, []byte(payload))
		assert.ErrorIs(suite.T(), err, ErrInvalidRecord, payload)
	}
}

// TestList_ResolvesDisplayFields tests that listed entries carry resolved display fields
func (suite *AuditServiceTestSuite) TestList_ResolvesDisplayFields() {
	entries := []models.AuditLogEntry{
		{
			ID:        1,
			EventID:   "e-1",
			Source:    models.SourceIngest,
			EventType: "user_login",
			RawRecord: `{"user_id":"u-1","event_type":"user_login","response_body":{"users":[{"id":"u-1","first_name":"Ada","last_name":"Lovelace"}]}}`,
		},
		{
			ID:        2,
			EventID:   "e-2",
			Source:    models.SourceConsole,
			Username:  "ops@example.com",
			EventType: "post_logout",
			Browser:   "Firefox",
			OS:        "Linux",
			IPAddress: "::ffff:127.0.0.1",
		},
	}
	expectedFilter := models.AuditLogFilter{Category: "login", Limit: models.DefaultAuditPageSize}

	suite.mockAuditRepo.EXPECT().List(suite.ctx, expectedFilter).Return(entries, nil)
	suite.mockAuditRepo.EXPECT().Count(suite.ctx, expectedFilter).Return(2, nil)

	page, err := suite.service.List(suite.ctx, models.AuditLogFilter{Category: "LOGIN"})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), page.Entries, 2)
	assert.Equal(suite.T(), "Ada Lovelace", page.Entries[0].Username)
	assert.Equal(suite.T(), "User Login", page.Entries[0].EventLabel)
	assert.Equal(suite.T(), "ops@example.com", page.Entries[1].Username)
	assert.Equal(suite.T(), "Linux • Firefox", page.Entries[1].Device)
	assert.Equal(suite.T(), "127.0.0.1", page.Entries[1].IPAddress)
	assert.Equal(suite.T(), 2, page.Pagination.Total)
}

// TestList_InvalidCategory tests that an unknown category is rejected
func (suite *AuditServiceTestSuite) TestList_InvalidCategory() {
	_, err := suite.service.List(suite.ctx, models.AuditLogFilter{Category: "payments"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCategory)
}

// TestGet_RedactsPayloads tests that the detail view masks sensitive keys
func (suite *AuditServiceTestSuite) TestGet_RedactsPayloads() {
	entry := &models.AuditLogEntry{
		ID:           7,
		EventType:    "api_key_create",
		RequestBody:  `{"name": "ci", "api_key": "sk-live-123"}`,
		ResponseBody: "plain text response",
	}
	suite.mockAuditRepo.EXPECT().GetByID(suite.ctx, int64(7)).Return(entry, nil)

	detail, err := suite.service.Get(suite.ctx, 7)

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), detail.RequestJSON, `"api_key": "********"`)
	assert.NotContains(suite.T(), detail.RequestJSON, "sk-live-123")
	assert.Equal(suite.T(), "plain text response", detail.ResponseJSON)
	assert.Equal(suite.T(), auditview.CategoryCreate, detail.Category)
}

// TestGet_NotFound tests that a missing entry surfaces the sentinel error
func (suite *AuditServiceTestSuite) TestGet_NotFound() {
	suite.mockAuditRepo.EXPECT().GetByID(suite.ctx, int64(99)).Return(nil, models.ErrAuditLogNotFound)

	_, err := suite.service.Get(suite.ctx, 99)
	assert.ErrorIs(suite.T(), err, models.ErrAuditLogNotFound)

	_, err = suite.service.Get(suite.ctx, 0)
	assert.ErrorIs(suite.T(), err, models.ErrAuditLogNotFound)
}

// TestSummary_CountsEveryCategory tests that all categories are reported in order
func (suite *AuditServiceTestSuite) TestSummary_CountsEveryCategory() {
	suite.mockAuditRepo.EXPECT().CountByCategory(suite.ctx).Return(map[string]int{"login": 3, "delete": 1}, nil)
	suite.mockAuditRepo.EXPECT().List(suite.ctx, models.AuditLogFilter{Limit: dashboardRecentCount}).Return(nil, nil)

	data, err := suite.service.Summary(suite.ctx)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, data.Total)
	assert.Len(suite.T(), data.Categories, len(auditview.Categories()))
	assert.Equal(suite.T(), auditview.CategoryLogin, data.Categories[0].Category)
	assert.Equal(suite.T(), "Login", data.Categories[0].Label)
	assert.Equal(suite.T(), 3, data.Categories[0].Count)
	assert.Equal(suite.T(), 0, data.Categories[1].Count)
}

// TestPurge_DeletesOlderThanRetention tests the cutoff passed to the repository
func (suite *AuditServiceTestSuite) TestPurge_DeletesOlderThanRetention() {
	before := time.Now().UTC().AddDate(0, 0, -30)
	suite.mockAuditRepo.EXPECT().DeleteBefore(suite.ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return !cutoff.Before(before) && cutoff.Sub(before) < time.Minute
	})).Return(int64(12), nil)

	deleted, err := suite.service.Purge(suite.ctx, 30)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(12), deleted)
}

func (suite *AuditServiceTestSuite) TestPurge_RejectsInvalidRetention() {
	_, err := suite.service.Purge(suite.ctx, 0)
	assert.ErrorIs(suite.T(), err, ErrInvalidRetention)
}

func (suite *AuditServiceTestSuite) TestPurge_RepositoryError() {
	suite.mockAuditRepo.EXPECT().DeleteBefore(suite.ctx, mock.Anything).Return(int64(0), errors.New("disk full"))

	_, err := suite.service.Purge(suite.ctx, 7)
	assert.ErrorContains(suite.T(), err, "disk full")
}

// TestRunAuditServiceTestSuite runs the test suite
func TestRunAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func TestRecordFromEntry_FallsBackToColumnsOnBadRawRecord(t *testing.T) {
	rec := RecordFromEntry(&models.AuditLogEntry{RawRecord: "not json", Username: "ada"})
	assert.Equal(t, "ada", auditview.ResolveUsername(rec))

	assert.Equal(t, auditview.UnknownUser, auditview.ResolveUsername(RecordFromEntry(nil)))
}

func TestEntryFromRecord_KeepsNonStringsAsJSON(t *testing.T) {
	rec, err := auditview.DecodeRecord([]byte(`{"user_id": 7, "os": null, "username": "ada", "request_body": "{\"a\":1}"}`))
	assert.NoError(t, err)

	entry := EntryFromRecord(rec)
	assert.Equal(t, "7", entry.UserID)
	assert.Equal(t, "", entry.OS)
	assert.Equal(t, "ada", entry.Username)
	assert.Equal(t, `{"a":1}`, entry.RequestBody)
}
