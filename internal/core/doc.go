// Package core turns marketing-campaign archives into three clean CSV tables.
//
// The pipeline is a single pass:
//
//  1. Ingestion: every *.zip in the input directory is opened in place and
//     each *.csv entry is decoded into [RawRecord] values ([Source.Records]).
//     [Collect] materializes them and synthesizes client_id when the source
//     has none.
//  2. Normalization: [Project] maps each raw record onto a [ClientRecord],
//     a [CampaignRecord] and an [EconomicsRecord]. Row i of every table comes
//     from raw row i, so client_id lines up across files.
//  3. Emission: [WriteDataset] writes client.csv, campaign.csv and
//     economics.csv, overwriting previous output.
//
// [Builder.Run] chains the three steps.
//
// # Missing values
//
// Cells that can be missing are pgtype values with Valid=false rather than
// sentinel strings. They are written as empty CSV cells, and the database
// sink stores them as NULL.
//
// # Errors
//
// Decode and schema problems wrap [ErrMissingColumn], [ErrSchemaMismatch],
// [ErrInvalidNumber] or [ErrNoHeader] together with the archive, entry and
// line they were found at. Categorical values are never validated: an
// unexpected job or month flows through the cleaning rules unchanged.
package core
