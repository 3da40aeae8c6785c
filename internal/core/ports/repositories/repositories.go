package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// container at bootstrap.
type RepositoryProvider struct {
	AccountRepo   AccountRepository
	JournalRepo   JournalRepository
	ReportingRepo ReportingRepository
}
