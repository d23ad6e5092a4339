package mongodb

const (
	CollectionBills       = "bills"
	CollectionMirrorBills = "governmentBills"
	CollectionProducts    = "products"
	CollectionSequences   = "sequences"
	CollectionOutbox      = "outbox"
	CollectionAuditLogs   = "audit_logs"
)
