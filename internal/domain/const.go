package domain

const (
	// HistorySentinelDate is the timestamp of the synthesized leading history entry
	HistorySentinelDate int64 = 0

	// UnknownLineStatus replaces a missing line status in the line item unique key
	UnknownLineStatus = "Unknown"

	// UserAgentSuffix is appended to the external account id in the marketplace User-Agent header
	UserAgentSuffix = " - SelfIntegration"
)
