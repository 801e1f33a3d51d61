package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInboxFileSource_LoadsSignals(t *testing.T) {
	path := writeFile(t, "inbox.json", `[
		{"name": "Netflix", "cost": 15.99, "days_since_signup": 5, "vendor_email": "info@netflix.com"},
		{"name": "Figma", "billing_cycle": "yearly"},
		{"name": "", "cost": 1.00}
	]`)

	signals, err := NewInboxFileSource(path, nil).FindSubscriptionSignals(context.Background())

	require.NoError(t, err)
	require.Len(t, signals, 2, "nameless signal is dropped")
	assert.Equal(t, "Netflix", signals[0].Name)
	require.NotNil(t, signals[0].Cost)
	assert.Equal(t, 15.99, *signals[0].Cost)
	require.NotNil(t, signals[0].DaysSinceSignup)
	assert.Equal(t, 5, *signals[0].DaysSinceSignup)
	assert.Nil(t, signals[1].Cost)
}

func TestInboxFileSource_MissingFile(t *testing.T) {
	_, err := NewInboxFileSource("/nonexistent/inbox.json", nil).FindSubscriptionSignals(context.Background())
	assert.Error(t, err)
}

func TestInboxFileSource_MalformedJSON(t *testing.T) {
	path := writeFile(t, "inbox.json", `{"not": "an array"`)
	_, err := NewInboxFileSource(path, nil).FindSubscriptionSignals(context.Background())
	assert.Error(t, err)
}

func TestStatementCSVSource_DetectsRecurring(t *testing.T) {
	path := writeFile(t, "statement.csv", `date,description,amount
2026-06-15,NETFLIX.COM,-15.99
2026-07-15,NETFLIX.COM,-15.99
2026-08-15,NETFLIX.COM,-15.99
2026-07-03,PLANET FITNESS,-24.99
2026-08-03,PLANET FITNESS,-24.99
2026-08-10,ONE OFF STORE,-42.00
`)

	charges, err := NewStatementCSVSource(path, nil).FindRecurringCharges(context.Background())

	require.NoError(t, err)
	require.Len(t, charges, 2, "single occurrence is not recurring")

	assert.Equal(t, "NETFLIX.COM", charges[0].Name)
	assert.Equal(t, 15.99, charges[0].Cost)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), charges[0].LastCharged)

	assert.Equal(t, "PLANET FITNESS", charges[1].Name)
	assert.Equal(t, 24.99, charges[1].Cost)
}

func TestStatementCSVSource_PriceChangeStartsNewGroup(t *testing.T) {
	// Two charges at the old price recur; one charge at a new price does
	// not yet.
	path := writeFile(t, "statement.csv", `date,description,amount
2026-06-01,HULU,-7.99
2026-07-01,HULU,-7.99
2026-08-01,HULU,-9.99
`)

	charges, err := NewStatementCSVSource(path, nil).FindRecurringCharges(context.Background())

	require.NoError(t, err)
	require.Len(t, charges, 1)
	assert.Equal(t, 7.99, charges[0].Cost)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), charges[0].LastCharged)
}

func TestStatementCSVSource_BadAmount(t *testing.T) {
	path := writeFile(t, "statement.csv", `date,description,amount
2026-06-01,HULU,seven dollars
`)

	_, err := NewStatementCSVSource(path, nil).FindRecurringCharges(context.Background())
	assert.Error(t, err)
}

func TestStatementCSVSource_BadDate(t *testing.T) {
	path := writeFile(t, "statement.csv", `date,description,amount
June 1st,HULU,-7.99
`)

	_, err := NewStatementCSVSource(path, nil).FindRecurringCharges(context.Background())
	assert.Error(t, err)
}

func TestStatementCSVSource_CaseVariantsMergeByIdentity(t *testing.T) {
	path := writeFile(t, "statement.csv", `date,description,amount
2026-07-01,Netflix,-15.99
2026-08-01,NETFLIX,-15.99
`)

	charges, err := NewStatementCSVSource(path, nil).FindRecurringCharges(context.Background())

	require.NoError(t, err)
	require.Len(t, charges, 1)
	// The most recent spelling wins the display name.
	assert.Equal(t, "NETFLIX", charges[0].Name)
}
