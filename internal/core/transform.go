package core

// ToClient derives a client row from a raw record.
func ToClient(r RawRecord) ClientRecord {
	return ClientRecord{
		ClientID:      r.ClientID.Int64,
		Age:           r.Age,
		Job:           CleanJob(r.Job),
		Marital:       r.Marital,
		Education:     CleanEducation(r.Education),
		CreditDefault: Flag(r.CreditDefault, "yes"),
		Mortgage:      Flag(r.Mortgage, "yes"),
	}
}

// ToCampaign derives a campaign row from a raw record.
func ToCampaign(r RawRecord) CampaignRecord {
	return CampaignRecord{
		ClientID:                 r.ClientID.Int64,
		NumberContacts:           r.NumberContacts,
		ContactDuration:          r.ContactDuration,
		PreviousCampaignContacts: r.PreviousCampaignContacts,
		PreviousOutcome:          Flag(r.PreviousOutcome, "success"),
		CampaignOutcome:          Flag(r.CampaignOutcome, "yes"),
		LastContactDate:          LastContactDate(r.Day, r.Month),
	}
}

// ToEconomics derives an economics row from a raw record.
func ToEconomics(r RawRecord) EconomicsRecord {
	return EconomicsRecord{
		ClientID:           r.ClientID.Int64,
		ConsPriceIdx:       r.ConsPriceIdx,
		EuriborThreeMonths: r.EuriborThreeMonths,
	}
}

// Project maps the raw records onto the three derived tables. Records must
// already carry a client_id (see Collect).
func Project(raw []RawRecord) *Dataset {
	ds := &Dataset{
		Clients:   make([]ClientRecord, len(raw)),
		Campaigns: make([]CampaignRecord, len(raw)),
		Economics: make([]EconomicsRecord, len(raw)),
	}
	for i, r := range raw {
		ds.Clients[i] = ToClient(r)
		ds.Campaigns[i] = ToCampaign(r)
		ds.Economics[i] = ToEconomics(r)
	}
	return ds
}
