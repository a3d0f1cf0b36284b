package core

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const rawHeader = "age,job,marital,education,credit_default,mortgage,number_contacts,contact_duration," +
	"previous_campaign_contacts,previous_outcome,campaign_outcome,day,month,cons_price_idx,euribor_three_months"

type zipEntry struct {
	name string
	body string
}

// csvBody joins a header and rows into CSV text with a trailing newline.
func csvBody(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

// writeArchive creates dir/name as a zip holding entries in the given order.
func writeArchive(t *testing.T, dir, name string, entries ...zipEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
