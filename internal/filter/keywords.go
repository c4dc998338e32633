package filter

// Category is one named group of company-name substrings to exclude.
type Category struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

var DefaultDenylist = []Category{
	{
		Name: "large_companies",
		Terms: []string{
			"google", "microsoft", "amazon", "apple", "meta", "netflix", "tesla",
			"saudi aramco", "sabic", "stc", "mobily", "zain", "accenture", "deloitte",
			"pwc", "kpmg", "ey", "ibm", "oracle", "sap",
		},
	},
	{
		Name: "hr_firms",
		Terms: []string{
			"randstad", "manpower", "adecco", "hays", "robert half", "recruitment",
			"talent", "staffing", "hr solutions", "workforce",
		},
	},
	{
		Name: "government",
		Terms: []string{
			"ministry", "government", "municipal", "authority", "commission", "council",
			"public sector", "gov.sa", "moe", "moh", "mci",
		},
	},
}

var DefaultRoles = []string{
	"graphic designer",
	"full stack developer",
	"ui-ux designer",
	"motion graphic designer",
	"frontend developer",
	"backend developer",
	"web developer",
	"mobile developer",
	"react developer",
	"angular developer",
	"مصمم جرافيك",
}

var (
	remoteKeywords = []string{"remote", "work from home", "wfh", "telecommute", "distributed"}
	hybridKeywords = []string{"hybrid", "flexible", "part remote", "mixed"}
)
