package storage

// NewInMemoryStores wires the in-memory repositories together.
func NewInMemoryStores() *Stores {
	return &Stores{
		Events:    NewInMemoryEventStore(),
		Campaigns: NewInMemoryCampaignRepo(),
		Users:     NewInMemoryUserRepo(),
	}
}
