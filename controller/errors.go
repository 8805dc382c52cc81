package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrUserRegister  = errors.New("failed to register user")
	ErrGenerateToken = errors.New("failed to generate token")
	ErrUserLogin     = errors.New("failed to login")

	ErrLoadScenario    = errors.New("failed to load scenario")
	ErrCreateScenario  = errors.New("failed to create scenario")
	ErrListScenarios   = errors.New("failed to list scenarios")
	ErrUpdateScenario  = errors.New("failed to update scenario")

	ErrListPendingFAQs = errors.New("failed to list pending FAQs")
	ErrAcceptFAQ       = errors.New("failed to accept pending FAQ")
	ErrDiscardFAQ      = errors.New("failed to discard pending FAQ")
	ErrBulkAcceptFAQs  = errors.New("failed to bulk accept pending FAQs")
	ErrBulkDiscardFAQs = errors.New("failed to bulk discard pending FAQs")

	ErrListKnowledgeItems  = errors.New("failed to list knowledge items")
	ErrGetKnowledgeItem    = errors.New("failed to get knowledge item")
	ErrUpdateKnowledgeItem = errors.New("failed to update knowledge item")

	ErrTriggerAggregation = errors.New("failed to trigger dialog aggregation")
	ErrTriggerExtraction  = errors.New("failed to trigger FAQ extraction")
	ErrTriggerCompareSync = errors.New("failed to trigger compare KB sync")
	ErrScenarioSync       = errors.New("failed to sync scenario knowledge base")
)
