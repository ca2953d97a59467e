// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceType distinguishes vendor-stated claims from independent verification.
type SourceType string

const (
	SourceVendor      SourceType = "vendor"
	SourceIndependent SourceType = "independent"
)

// Severity grades a vulnerability or consideration.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Confidence grades how well-sourced a trust score is.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// TrustScore is the headline assessment with a transparent rationale.
type TrustScore struct {
	// Score is the trust score from 0 to 100.
	Score int `json:"score" yaml:"score"`

	// Confidence reflects source quantity and quality.
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// SourceCount is the number of sources behind the assessment.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// Rationale explains which factors raised or lowered the score.
	Rationale string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
}

// Strength is a security strength finding with source attribution.
type Strength struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	SourceType  SourceType `json:"source_type" yaml:"source_type"`
	SourceURL   string     `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// Consideration is a security risk or area of concern.
type Consideration struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// Certification is an active compliance certification.
type Certification struct {
	// Cert names the certification (e.g. "SOC 2 Type II").
	Cert      string `json:"cert" yaml:"cert"`
	Issued    string `json:"issued,omitempty" yaml:"issued,omitempty"`
	Expires   string `json:"expires,omitempty" yaml:"expires,omitempty"`
	Scope     string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Auditor   string `json:"auditor,omitempty" yaml:"auditor,omitempty"`
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// CVERecord is a vulnerability record for the assessed product.
type CVERecord struct {
	// ID is the CVE identifier (e.g. "CVE-2025-1234").
	ID       string   `json:"id" yaml:"id"`
	Severity Severity `json:"severity" yaml:"severity"`

	// CVSS is the score as published (e.g. "7.5").
	CVSS      string `json:"cvss,omitempty" yaml:"cvss,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Published string `json:"published,omitempty" yaml:"published,omitempty"`

	// Patched is the patch date, empty when no patch is known.
	Patched string `json:"patched,omitempty" yaml:"patched,omitempty"`

	// KEV reports whether the CVE is listed in the CISA KEV catalog.
	KEV bool `json:"kev" yaml:"kev"`
}

// VendorInfo captures vendor reputation details.
type VendorInfo struct {
	Company        string `json:"company,omitempty" yaml:"company,omitempty"`
	MarketPresence string `json:"market_presence,omitempty" yaml:"market_presence,omitempty"`
	Transparency   string `json:"transparency,omitempty" yaml:"transparency,omitempty"`
	PSIRTPresence  string `json:"psirt_presence,omitempty" yaml:"psirt_presence,omitempty"`
}

// EncryptionDetails lists encryption standards and practices.
type EncryptionDetails struct {
	InTransit     string `json:"in_transit,omitempty" yaml:"in_transit,omitempty"`
	AtRest        string `json:"at_rest,omitempty" yaml:"at_rest,omitempty"`
	KeyManagement string `json:"key_management,omitempty" yaml:"key_management,omitempty"`
	Backups       string `json:"backups,omitempty" yaml:"backups,omitempty"`
}

// DataResidency lists data location and retention details.
type DataResidency struct {
	PrimaryStorage string `json:"primary_storage,omitempty" yaml:"primary_storage,omitempty"`
	EUResidency    string `json:"eu_residency,omitempty" yaml:"eu_residency,omitempty"`
	Retention      string `json:"retention,omitempty" yaml:"retention,omitempty"`
	Portability    string `json:"portability,omitempty" yaml:"portability,omitempty"`
}

// ControlFeature is one row of an access- or admin-control matrix:
// a feature name and the plan tier it is available on.
type ControlFeature struct {
	Feature string `json:"feature" yaml:"feature"`
	Plan    string `json:"plan" yaml:"plan"`
}

// Alternative is a recommended substitute product.
type Alternative struct {
	Name   string   `json:"name" yaml:"name"`
	Score  int      `json:"score" yaml:"score"`
	Reason string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Pros   []string `json:"pros,omitempty" yaml:"pros,omitempty"`
	Cons   []string `json:"cons,omitempty" yaml:"cons,omitempty"`
}

// SourceAttribution is one entry in the report's source list. Every
// claim surfaced to a user traces to one of these or is explicitly
// marked model-inferred.
type SourceAttribution struct {
	Type      SourceType `json:"type" yaml:"type"`
	Source    string     `json:"source,omitempty" yaml:"source,omitempty"`
	URL       string     `json:"url" yaml:"url"`
	Date      string     `json:"date,omitempty" yaml:"date,omitempty"`
	Relevance string     `json:"relevance,omitempty" yaml:"relevance,omitempty"`
}

// Report is the structured trust report consumed by the presenter.
type Report struct {
	// Entity identification.
	CompanyName string   `json:"company_name" yaml:"company_name"`
	ProductName string   `json:"product_name" yaml:"product_name"`
	Vendor      string   `json:"vendor" yaml:"vendor"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Taxonomy    []string `json:"taxonomy,omitempty" yaml:"taxonomy,omitempty"`

	// Trust assessment.
	TrustScore       TrustScore `json:"trust_score" yaml:"trust_score"`
	ExecutiveSummary string     `json:"executive_summary,omitempty" yaml:"executive_summary,omitempty"`

	// Security posture.
	Strengths      []Strength      `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	Considerations []Consideration `json:"considerations,omitempty" yaml:"considerations,omitempty"`

	// Compliance and vulnerabilities.
	Compliance         []Certification `json:"compliance,omitempty" yaml:"compliance,omitempty"`
	CVEs               []CVERecord     `json:"cves,omitempty" yaml:"cves,omitempty"`
	VulnerabilityTrend string          `json:"vulnerability_trend,omitempty" yaml:"vulnerability_trend,omitempty"`
	AvgPatchTime       string          `json:"avg_patch_time,omitempty" yaml:"avg_patch_time,omitempty"`

	// Vendor reputation and data handling.
	VendorInfo        VendorInfo        `json:"vendor_info,omitempty" yaml:"vendor_info,omitempty"`
	Encryption        EncryptionDetails `json:"encryption,omitempty" yaml:"encryption,omitempty"`
	DataResidency     DataResidency     `json:"data_residency,omitempty" yaml:"data_residency,omitempty"`
	PrivacyCompliance []string          `json:"privacy_compliance,omitempty" yaml:"privacy_compliance,omitempty"`

	// Deployment and admin controls.
	AccessControls            []ControlFeature `json:"access_controls,omitempty" yaml:"access_controls,omitempty"`
	AdminControls             []ControlFeature `json:"admin_controls,omitempty" yaml:"admin_controls,omitempty"`
	DeploymentRecommendations string           `json:"deployment_recommendations,omitempty" yaml:"deployment_recommendations,omitempty"`

	// Alternatives and sources.
	Alternatives []Alternative       `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
	Sources      []SourceAttribution `json:"sources,omitempty" yaml:"sources,omitempty"`

	// Metadata.
	GeneratedAt           string   `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
	AssessmentID          string   `json:"assessment_id,omitempty" yaml:"assessment_id,omitempty"`
	InsufficientDataAreas []string `json:"insufficient_data_areas,omitempty" yaml:"insufficient_data_areas,omitempty"`
}
