package config

type WorkerKeyStruct struct {
	RequestAuditQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RequestAuditQueue: "request_audit_queue",
}
