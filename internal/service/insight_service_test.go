package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeGenerator returns a canned completion or an error.
type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newInsightServiceForTest(db *gorm.DB, gen *fakeGenerator) InsightService {
	return NewInsightService(
		gen,
		repository.NewUserRepo(db),
		repository.NewInvoiceRepo(db),
		repository.NewProductRepo(db),
		repository.NewCustomerRepo(db),
		zap.NewNop(),
	)
}

func TestGetInsightsParsesFencedJSON(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{reply: "```json\n{\"insights\": [\"Revenue is up\"], \"actions\": [\"Restock pens\"]}\n```"}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "insightjson")

	resp, err := svc.GetInsights(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue is up"}, resp.Insights)
	assert.Equal(t, []string{"Restock pens"}, resp.Actions)
}

func TestGetInsightsDegradesOnModelFailure(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{err: fmt.Errorf("rate limited")}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "insightfail")

	// Model failure never bubbles up; the caller gets empty lists.
	resp, err := svc.GetInsights(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Insights)
	assert.Empty(t, resp.Actions)
}

func TestGetInsightsDegradesOnGarbageOutput(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{reply: "Sorry, I cannot help with that."}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "insightgarbage")

	resp, err := svc.GetInsights(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Insights)
	assert.Empty(t, resp.Actions)
}

func TestInsightContextIncludesBusinessData(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{reply: `{"insights": [], "actions": []}`}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "insightctx")
	seedProduct(t, db, owner.ID, "Scarce Item", 9000, 2)

	_, err := svc.GetInsights(context.Background(), owner.ID)
	require.NoError(t, err)

	assert.Contains(t, gen.lastPrompt, owner.BusinessName)
	assert.Contains(t, gen.lastPrompt, "Scarce Item")
}

func TestChatSurfacesModelFailure(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{err: fmt.Errorf("rate limited")}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "chatfail")

	// Chat, unlike insights, reports the upstream failure.
	_, err := svc.Chat(context.Background(), owner.ID, "How is business?")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeUpstream))
}

func TestChatAnswersWithContext(t *testing.T) {
	db := setupTestDB(t)
	gen := &fakeGenerator{reply: "Business is healthy."}
	svc := newInsightServiceForTest(db, gen)

	owner := seedUser(t, db, "chatok")

	answer, err := svc.Chat(context.Background(), owner.ID, "How is business?")
	require.NoError(t, err)
	assert.Equal(t, "Business is healthy.", answer)
	assert.True(t, strings.Contains(gen.lastPrompt, "How is business?"))
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	db := setupTestDB(t)
	svc := newInsightServiceForTest(db, &fakeGenerator{reply: "unused"})

	owner := seedUser(t, db, "chatempty")

	_, err := svc.Chat(context.Background(), owner.ID, "   ")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeInvalidInput))
}

func TestParseInsightJSONVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"plain", `{"insights": ["a"], "actions": ["b"]}`, true},
		{"fenced", "```json\n{\"insights\": [\"a\"], \"actions\": []}\n```", true},
		{"prose wrapped", `Here you go: {"insights": [], "actions": ["b"]} hope that helps`, true},
		{"no braces", "insights: none", false},
		{"broken json", `{"insights": [`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := parseInsightJSON(tc.raw)
			if tc.ok {
				require.NotNil(t, resp)
				assert.NotNil(t, resp.Insights)
				assert.NotNil(t, resp.Actions)
			} else {
				assert.Nil(t, resp)
			}
		})
	}
}
