package repository

//go:generate mockgen -destination=mock/repository_mock.go -package=mock reqtrack/internal/repository UserRepository,OrganizationRepository,RequisitionRepository,ApprovalRepository,AttachmentRepository,RequisitionTypeRepository,SequenceRepository,AuditRepository,TransactionManager
