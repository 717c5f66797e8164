package domain

// OperationalPredicate is a source's definition of an operational site.
// The spreadsheet and the knowledge graph define it differently and each
// registry keeps the rule of the source that built it.
type OperationalPredicate interface {
	// Name identifies the rule in logs.
	Name() string
	// IsOperational reports whether site is still running.
	IsOperational(site Site) bool
	// DecommissionColumns lists the columns that carry no information once
	// the view is restricted to operational sites.
	DecommissionColumns() []string
}

// DecommissionFlagRule treats the explicit is_decommissioned flag as authoritative.
type DecommissionFlagRule struct{}

func (DecommissionFlagRule) Name() string { return "decommission_flag" }

func (DecommissionFlagRule) IsOperational(site Site) bool {
	return !site.IsDecommissioned
}

func (DecommissionFlagRule) DecommissionColumns() []string {
	return []string{ColDateDecommissioned, ColIsDecommissioned}
}

// DecommissionDateRule treats the presence of a decommission date as authoritative.
type DecommissionDateRule struct{}

func (DecommissionDateRule) Name() string { return "decommission_date" }

func (DecommissionDateRule) IsOperational(site Site) bool {
	return site.DateDecommissioned == nil
}

func (DecommissionDateRule) DecommissionColumns() []string {
	return []string{ColDateDecommissioned}
}
