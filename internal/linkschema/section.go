package linkschema

// Section is the category a link is filed under on the start page.
// The set of sections is closed: anything not listed below is rejected.
type Section string

const (
	SectionMonitoring   Section = "Monitoring"
	SectionProductivity Section = "Productivity"
	SectionUtilities    Section = "Utilities"
	SectionContent      Section = "Content"
	SectionSmartHome    Section = "Smart Home"
	SectionExternal     Section = "External"
)

// sections is the canonical display order.
var sections = [...]Section{
	SectionMonitoring,
	SectionProductivity,
	SectionUtilities,
	SectionContent,
	SectionSmartHome,
	SectionExternal,
}

// Sections returns every allowed section in display order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections[:])
	return out
}

// ParseSection matches s exactly (case-sensitive) against the allowed labels.
func ParseSection(s string) (Section, bool) {
	for _, sec := range sections {
		if string(sec) == s {
			return sec, true
		}
	}
	return "", false
}

// Valid reports whether s is one of the allowed labels.
func (s Section) Valid() bool {
	_, ok := ParseSection(string(s))
	return ok
}

// Rank returns the position of s in display order, or -1 when s is not a valid section.
func (s Section) Rank() int {
	for i, sec := range sections {
		if sec == s {
			return i
		}
	}
	return -1
}

func (s Section) String() string { return string(s) }
