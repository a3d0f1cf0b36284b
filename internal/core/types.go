package core

import "github.com/jackc/pgx/v5/pgtype"

// Raw column names. These are the exact, case-sensitive headers of the
// source files and must not be renamed.
const (
	ColClientID                 = "client_id"
	ColAge                      = "age"
	ColJob                      = "job"
	ColMarital                  = "marital"
	ColEducation                = "education"
	ColCreditDefault            = "credit_default"
	ColMortgage                 = "mortgage"
	ColNumberContacts           = "number_contacts"
	ColContactDuration          = "contact_duration"
	ColPreviousCampaignContacts = "previous_campaign_contacts"
	ColPreviousOutcome          = "previous_outcome"
	ColCampaignOutcome          = "campaign_outcome"
	ColDay                      = "day"
	ColMonth                    = "month"
	ColConsPriceIdx             = "cons_price_idx"
	ColEuriborThreeMonths       = "euribor_three_months"
	ColLastContactDate          = "last_contact_date"
)

// RequiredColumns lists the raw columns every input file must carry.
// client_id is optional and synthesized when absent.
var RequiredColumns = []string{
	ColAge, ColJob, ColMarital, ColEducation, ColCreditDefault, ColMortgage,
	ColNumberContacts, ColContactDuration, ColPreviousCampaignContacts,
	ColPreviousOutcome, ColCampaignOutcome, ColDay, ColMonth,
	ColConsPriceIdx, ColEuriborThreeMonths,
}

// RawRecord is one input row as decoded from an archived CSV entry.
// Numeric cells are nullable: an empty cell decodes to Valid=false.
type RawRecord struct {
	ClientID                 pgtype.Int8
	Age                      pgtype.Int8
	Job                      string
	Marital                  string
	Education                string
	CreditDefault            string
	Mortgage                 string
	NumberContacts           pgtype.Int8
	ContactDuration          pgtype.Int8
	PreviousCampaignContacts pgtype.Int8
	PreviousOutcome          string
	CampaignOutcome          string
	Day                      string
	Month                    string
	ConsPriceIdx             pgtype.Float8
	EuriborThreeMonths       pgtype.Float8
}

// ClientRecord is one row of client.csv.
type ClientRecord struct {
	ClientID      int64
	Age           pgtype.Int8
	Job           string
	Marital       string
	Education     pgtype.Text // Valid=false for "unknown"
	CreditDefault int
	Mortgage      int
}

// CampaignRecord is one row of campaign.csv.
type CampaignRecord struct {
	ClientID                 int64
	NumberContacts           pgtype.Int8
	ContactDuration          pgtype.Int8
	PreviousCampaignContacts pgtype.Int8
	PreviousOutcome          int
	CampaignOutcome          int
	LastContactDate          pgtype.Text // Valid=false when the month is not recognized
}

// EconomicsRecord is one row of economics.csv.
type EconomicsRecord struct {
	ClientID           int64
	ConsPriceIdx       pgtype.Float8
	EuriborThreeMonths pgtype.Float8
}

// TableInfo describes one derived table and where it is persisted.
type TableInfo struct {
	Key      string   // Unique identifier: "client"
	FileName string   // Output file: "client.csv"
	SQLName  string   // PostgreSQL table used by the database sink
	Columns  []string // Header, in output order
}

var (
	ClientTable = TableInfo{
		Key:      "client",
		FileName: "client.csv",
		SQLName:  "campaign_client",
		Columns: []string{
			ColClientID, ColAge, ColJob, ColMarital, ColEducation,
			ColCreditDefault, ColMortgage,
		},
	}

	CampaignTable = TableInfo{
		Key:      "campaign",
		FileName: "campaign.csv",
		SQLName:  "campaign_contact",
		Columns: []string{
			ColClientID, ColNumberContacts, ColContactDuration,
			ColPreviousCampaignContacts, ColPreviousOutcome, ColCampaignOutcome,
			ColLastContactDate,
		},
	}

	EconomicsTable = TableInfo{
		Key:      "economics",
		FileName: "economics.csv",
		SQLName:  "campaign_economics",
		Columns:  []string{ColClientID, ColConsPriceIdx, ColEuriborThreeMonths},
	}
)

// Table is a derived table ready to be written out.
// Cells and Values return the row in the order of Info().Columns.
type Table interface {
	Info() TableInfo
	Len() int
	Cells(i int) []string // CSV text, missing values as ""
	Values(i int) []any   // typed values for the PostgreSQL COPY protocol
}

type table[T any] struct {
	info    TableInfo
	records []T
	cells   func(T) []string
	values  func(T) []any
}

func (t *table[T]) Info() TableInfo      { return t.info }
func (t *table[T]) Len() int             { return len(t.records) }
func (t *table[T]) Cells(i int) []string { return t.cells(t.records[i]) }
func (t *table[T]) Values(i int) []any   { return t.values(t.records[i]) }

// Dataset holds the three derived tables of one run. Row i of each slice
// belongs to the same raw record.
type Dataset struct {
	Clients   []ClientRecord
	Campaigns []CampaignRecord
	Economics []EconomicsRecord
}

// Len returns the number of rows in each table.
func (d *Dataset) Len() int {
	return len(d.Clients)
}

// Tables returns the derived tables in output order: client, campaign, economics.
func (d *Dataset) Tables() []Table {
	return []Table{
		&table[ClientRecord]{
			info:    ClientTable,
			records: d.Clients,
			cells: func(r ClientRecord) []string {
				return []string{
					FormatInt(r.ClientID), FormatInt8(r.Age), r.Job, r.Marital,
					FormatText(r.Education), FormatInt(int64(r.CreditDefault)),
					FormatInt(int64(r.Mortgage)),
				}
			},
			values: func(r ClientRecord) []any {
				return []any{r.ClientID, r.Age, r.Job, r.Marital, r.Education, r.CreditDefault, r.Mortgage}
			},
		},
		&table[CampaignRecord]{
			info:    CampaignTable,
			records: d.Campaigns,
			cells: func(r CampaignRecord) []string {
				return []string{
					FormatInt(r.ClientID), FormatInt8(r.NumberContacts),
					FormatInt8(r.ContactDuration), FormatInt8(r.PreviousCampaignContacts),
					FormatInt(int64(r.PreviousOutcome)), FormatInt(int64(r.CampaignOutcome)),
					FormatText(r.LastContactDate),
				}
			},
			values: func(r CampaignRecord) []any {
				return []any{
					r.ClientID, r.NumberContacts, r.ContactDuration, r.PreviousCampaignContacts,
					r.PreviousOutcome, r.CampaignOutcome, r.LastContactDate,
				}
			},
		},
		&table[EconomicsRecord]{
			info:    EconomicsTable,
			records: d.Economics,
			cells: func(r EconomicsRecord) []string {
				return []string{FormatInt(r.ClientID), FormatFloat8(r.ConsPriceIdx), FormatFloat8(r.EuriborThreeMonths)}
			},
			values: func(r EconomicsRecord) []any {
				return []any{r.ClientID, r.ConsPriceIdx, r.EuriborThreeMonths}
			},
		},
	}
}
