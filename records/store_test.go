package records

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/jewel-docs/db/sqldb"
	"github.com/zeptools/jewel-docs/db/sqldb/impls/sqlite"
	"github.com/zeptools/jewel-docs/document"
	"github.com/zeptools/jewel-docs/nullable"
)

func newClient(t *testing.T) sqldb.Client {
	t.Helper()
	c, err := sqldb.New(&sqldb.Conf{Type: sqlite.DBType, DB: sqlite.MemoryDB})
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func sample(name, path string, typ document.Type) Record {
	return Record{
		Record: document.Record{
			CustomerName:     name,
			CustomerID:       "C-7",
			JewelleryDetails: "Gold bangle",
			GrossWeight:      12.5,
			NetWeight:        11.46,
			GoldPurity:       "22K",
		},
		CustomerSignature: nullable.StringOf("/sdcard/sign.png"),
		PDFPath:           path,
		DocumentType:      typ,
		Checksum:          "abc123",
	}
}

func TestOpenCreatesFullSchema(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	_, err := Open(ctx, c)
	require.NoError(t, err)

	cols, err := c.TableColumns(ctx, Table)
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, BaseColumns...), AddedColumns...), cols)

	// idempotent
	_, err = Open(ctx, c)
	require.NoError(t, err)
}

func TestOpenMigratesLegacyTable(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)
	_, err := c.Exec(ctx, `CREATE TABLE invoices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_name TEXT NOT NULL,
		jewellery_details TEXT NOT NULL,
		gross_weight REAL NOT NULL,
		net_weight REAL NOT NULL,
		gold_purity TEXT NOT NULL,
		pdf_path TEXT NOT NULL,
		created_at TEXT NOT NULL,
		customer_id TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)
	_, err = c.Exec(ctx, `INSERT INTO invoices (customer_name, jewellery_details, gross_weight, net_weight, gold_purity, pdf_path, created_at)
		VALUES ('Old Customer', 'Ring', 5, 4.5, '18K', '/old/Old_Customer_invoice.pdf', '2023-01-02T03:04:05.000Z')`)
	require.NoError(t, err)

	s, err := Open(ctx, c)
	require.NoError(t, err)

	cols, err := c.TableColumns(ctx, Table)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"id", "customer_name", "jewellery_details", "gross_weight", "net_weight", "gold_purity", "pdf_path", "created_at",
		"customer_id", "customer_signature", "customer_image", "document_type", "checksum",
	}, cols)

	old, err := s.ByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Old Customer", old.CustomerName)
	assert.Equal(t, "", old.CustomerID)
	assert.True(t, old.CustomerSignature.IsNil())
	assert.Equal(t, document.Bill, old.DocumentType)
	assert.Equal(t, "", old.Checksum)
	assert.Equal(t, 2023, old.Created().Year())
}

func TestInsertAndQuery(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newClient(t))
	require.NoError(t, err)
	s.Now = fixedClock(time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC))

	id1, err := s.Insert(ctx, sample("Asha", "/r/Asha_certificate.pdf", document.Certificate))
	require.NoError(t, err)
	id2, err := s.Insert(ctx, sample("Ravi", "/r/Ravi_invoice.pdf", document.Bill))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := s.ByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.CustomerName)
	assert.Equal(t, 11.46, got.NetWeight)
	assert.Equal(t, document.Certificate, got.DocumentType)
	assert.Equal(t, "/sdcard/sign.png", got.CustomerSignature.ForceValue())
	assert.True(t, got.CustomerImage.IsNil())
	assert.Equal(t, "2025-05-01T08:00:01.000Z", got.CreatedAt)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID)
	assert.Equal(t, id1, all[1].ID)

	_, err = s.ByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordJSON(t *testing.T) {
	rec := sample("Asha", "/r/a.pdf", document.JewelleryReport)
	rec.ID = 3
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "Asha", m["customer_name"])
	assert.Equal(t, "jewellery-report", m["document_type"])
	assert.Equal(t, "/sdcard/sign.png", m["customer_signature"])
	assert.Nil(t, m["customer_image"])
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newClient(t))
	require.NoError(t, err)

	id, err := s.Insert(ctx, sample("Asha", "/r/a.pdf", document.Bill))
	require.NoError(t, err)
	_, err = s.Insert(ctx, sample("Asha", "/r/a.pdf", document.Bill))
	require.NoError(t, err)
	_, err = s.Insert(ctx, sample("Ravi", "/r/b.pdf", document.Bill))
	require.NoError(t, err)

	byPath, err := s.ByPath(ctx, "/r/a.pdf")
	require.NoError(t, err)
	assert.Len(t, byPath, 2)

	require.NoError(t, s.Delete(ctx, id))
	assert.ErrorIs(t, s.Delete(ctx, id), ErrNotFound)

	n, err := s.DeleteByPath(ctx, "/r/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ravi", all[0].CustomerName)
}

func TestOrphansAndPrune(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, newClient(t))
	require.NoError(t, err)
	for _, p := range []string{"/r/keep.pdf", "/r/gone.pdf"} {
		_, err = s.Insert(ctx, sample("X", p, document.Bill))
		require.NoError(t, err)
	}
	exists := func(p string) bool { return p == "/r/keep.pdf" }

	orphans, err := s.Orphans(ctx, exists)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "/r/gone.pdf", orphans[0].PDFPath)

	n, err := s.Prune(ctx, exists)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	orphans, err = s.Orphans(ctx, exists)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestInsertColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"customer_name", "jewellery_details", "gross_weight", "net_weight", "gold_purity", "pdf_path", "created_at"},
		insertColumns(BaseColumns))
	assert.Equal(t, insertOrder, insertColumns(append(append([]string{}, BaseColumns...), AddedColumns...)))
}
