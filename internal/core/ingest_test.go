package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollect_OrderAcrossArchivesAndEntries(t *testing.T) {
	dir := t.TempDir()

	// Written out of lexical order on purpose.
	writeArchive(t, dir, "b.csv.zip",
		zipEntry{"b1.csv", csvBody(rawHeader, "30,b1,single,x,no,no,1,1,0,x,no,1,jan,1.0,1.0")},
	)
	writeArchive(t, dir, "a.csv.zip",
		zipEntry{"a2.csv", csvBody(rawHeader, "20,a2,single,x,no,no,1,1,0,x,no,1,jan,1.0,1.0")},
		zipEntry{"notes.txt", "ignored"},
		zipEntry{"a1.csv", csvBody(rawHeader,
			"21,a1-first,single,x,no,no,1,1,0,x,no,1,jan,1.0,1.0",
			"22,a1-second,single,x,no,no,1,1,0,x,no,1,jan,1.0,1.0",
		)},
	)

	src := NewSource(dir)
	records, err := Collect(context.Background(), src)
	require.NoError(t, err)

	var jobs []string
	for _, r := range records {
		jobs = append(jobs, r.Job)
	}
	assert.Equal(t, []string{"a2", "a1-first", "a1-second", "b1"}, jobs)

	for i, r := range records {
		require.True(t, r.ClientID.Valid)
		assert.Equal(t, int64(i), r.ClientID.Int64, "synthesized id of row %d", i)
	}

	assert.Equal(t, IngestStats{Archives: 2, Entries: 3, Rows: 4}, src.Stats())
}

func TestCollect_KeepsSourceClientID(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "in.zip", zipEntry{"data.csv", csvBody("client_id,"+rawHeader,
		"17,30,admin.,married,basic.6y,no,no,1,10,0,failure,no,3,mar,92.1,0.5",
		"4,31,admin.,married,basic.6y,no,no,1,10,0,failure,no,3,mar,92.1,0.5",
	)})

	records, err := Collect(context.Background(), NewSource(dir))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(17), records[0].ClientID.Int64)
	assert.Equal(t, int64(4), records[1].ClientID.Int64)
}

func TestCollect_DecodesTypedCells(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "in.zip", zipEntry{"data.csv", csvBody(rawHeader,
		"56,housemaid,married,basic.4y,no,yes,1,261,0,nonexistent,no,5,may,93.994,4.857",
		",housemaid,married,basic.4y,no,yes,,261,0,nonexistent,no,5,may,,4.857",
	)})

	records, err := Collect(context.Background(), NewSource(dir))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(56), first.Age.Int64)
	assert.Equal(t, "housemaid", first.Job)
	assert.Equal(t, "basic.4y", first.Education)
	assert.Equal(t, int64(261), first.ContactDuration.Int64)
	assert.Equal(t, "5", first.Day)
	assert.Equal(t, "may", first.Month)
	assert.InDelta(t, 93.994, first.ConsPriceIdx.Float64, 1e-9)
	assert.InDelta(t, 4.857, first.EuriborThreeMonths.Float64, 1e-9)

	second := records[1]
	assert.False(t, second.Age.Valid)
	assert.False(t, second.NumberContacts.Valid)
	assert.False(t, second.ConsPriceIdx.Valid)
}

func TestCollect_ColumnOrderMayDiffer(t *testing.T) {
	dir := t.TempDir()
	reordered := "euribor_three_months,cons_price_idx,month,day,campaign_outcome,previous_outcome," +
		"previous_campaign_contacts,contact_duration,number_contacts,mortgage,credit_default,education,marital,job,age"

	writeArchive(t, dir, "in.zip",
		zipEntry{"1.csv", csvBody(rawHeader, "40,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")},
		zipEntry{"2.csv", csvBody(reordered, "2.5,1.5,feb,2,no,x,0,1,1,no,no,x,single,two,41")},
	)

	records, err := Collect(context.Background(), NewSource(dir))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "two", records[1].Job)
	assert.Equal(t, int64(41), records[1].Age.Int64)
	assert.InDelta(t, 2.5, records[1].EuriborThreeMonths.Float64, 1e-9)
}

func TestCollect_BOMPrefixedEntry(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "in.zip", zipEntry{"bom.csv",
		"\xEF\xBB\xBF" + csvBody(rawHeader, "40,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")})

	records, err := Collect(context.Background(), NewSource(dir))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(40), records[0].Age.Int64)
}

func TestCollect_NoArchives(t *testing.T) {
	records, err := Collect(context.Background(), NewSource(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCollect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []zipEntry
		wantErr error
	}{
		{
			name:    "missing required column",
			entries: []zipEntry{{"x.csv", csvBody("age,job", "1,a")}},
			wantErr: ErrMissingColumn,
		},
		{
			name: "schema mismatch between entries",
			entries: []zipEntry{
				{"1.csv", csvBody(rawHeader, "40,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")},
				{"2.csv", csvBody("client_id,"+rawHeader, "9,40,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")},
			},
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "non numeric age",
			entries: []zipEntry{{"x.csv", csvBody(rawHeader, "old,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")}},
			wantErr: ErrInvalidNumber,
		},
		{
			name:    "empty client id",
			entries: []zipEntry{{"x.csv", csvBody("client_id,"+rawHeader, ",40,one,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0")}},
			wantErr: ErrInvalidNumber,
		},
		{
			name:    "empty entry",
			entries: []zipEntry{{"x.csv", ""}},
			wantErr: ErrNoHeader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeArchive(t, dir, "in.zip", tt.entries...)

			_, err := Collect(context.Background(), NewSource(dir))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "in.zip:")
		})
	}
}

func TestCollect_MissingInputDir(t *testing.T) {
	_, err := Collect(context.Background(), NewSource(filepath.Join(t.TempDir(), "absent")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading input directory")
}

func TestCollect_RaggedRowFails(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "in.zip", zipEntry{"x.csv", csvBody(rawHeader, "40,one")})

	_, err := Collect(context.Background(), NewSource(dir))
	require.Error(t, err)
}

func TestRecords_StopsWhenConsumerBreaks(t *testing.T) {
	dir := t.TempDir()
	writeArchive(t, dir, "in.zip", zipEntry{"x.csv", csvBody(rawHeader,
		"1,a,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0",
		"2,b,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0",
		"3,c,single,x,no,no,1,1,0,x,no,1,jan,1.0,2.0",
	)})

	src := NewSource(dir)
	seen := 0
	for _, err := range src.Records(context.Background()) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
	assert.Equal(t, 2, src.Stats().Rows)
}
