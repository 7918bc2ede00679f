package normalize

import (
	"regexp"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
)

// licenseNames maps lower-cased common names and abbreviations to SPDX
// identifiers.
var licenseNames = map[string]string{
	"mit":                                "MIT",
	"expat":                              "MIT",
	"mit license":                        "MIT",
	"the mit license":                    "MIT",
	"mit/expat":                          "MIT",
	"apache-2.0":                         "Apache-2.0",
	"apache 2.0":                         "Apache-2.0",
	"apache-2":                           "Apache-2.0",
	"apache2":                            "Apache-2.0",
	"apache 2":                           "Apache-2.0",
	"asl 2.0":                            "Apache-2.0",
	"apache license 2.0":                 "Apache-2.0",
	"apache license, version 2.0":        "Apache-2.0",
	"apache software license":            "Apache-2.0",
	"bsd-3-clause":                       "BSD-3-Clause",
	"bsd-3":                              "BSD-3-Clause",
	"bsd 3-clause":                       "BSD-3-Clause",
	"3-clause bsd":                       "BSD-3-Clause",
	"new bsd":                            "BSD-3-Clause",
	"modified bsd":                       "BSD-3-Clause",
	"bsd-2-clause":                       "BSD-2-Clause",
	"bsd-2":                              "BSD-2-Clause",
	"bsd 2-clause":                       "BSD-2-Clause",
	"2-clause bsd":                       "BSD-2-Clause",
	"simplified bsd":                     "BSD-2-Clause",
	"freebsd":                            "BSD-2-Clause",
	"isc":                                "ISC",
	"isc license":                        "ISC",
	"zlib":                               "Zlib",
	"zlib license":                       "Zlib",
	"unlicense":                          "Unlicense",
	"the unlicense":                      "Unlicense",
	"cc0":                                "CC0-1.0",
	"cc0-1.0":                            "CC0-1.0",
	"mpl-2.0":                            "MPL-2.0",
	"mpl 2.0":                            "MPL-2.0",
	"mpl2":                               "MPL-2.0",
	"mozilla public license 2.0":         "MPL-2.0",
	"gpl-2":                              "GPL-2.0-only",
	"gpl-2.0":                            "GPL-2.0-only",
	"gplv2":                              "GPL-2.0-only",
	"gpl-2.0-only":                       "GPL-2.0-only",
	"gpl-2+":                             "GPL-2.0-or-later",
	"gpl-2.0+":                           "GPL-2.0-or-later",
	"gplv2+":                             "GPL-2.0-or-later",
	"gpl-2.0-or-later":                   "GPL-2.0-or-later",
	"gpl-3":                              "GPL-3.0-only",
	"gpl-3.0":                            "GPL-3.0-only",
	"gplv3":                              "GPL-3.0-only",
	"gpl-3.0-only":                       "GPL-3.0-only",
	"gpl-3+":                             "GPL-3.0-or-later",
	"gpl-3.0+":                           "GPL-3.0-or-later",
	"gplv3+":                             "GPL-3.0-or-later",
	"gpl-3.0-or-later":                   "GPL-3.0-or-later",
	"lgpl-2.1":                           "LGPL-2.1-only",
	"lgpl-2.1-only":                      "LGPL-2.1-only",
	"lgpl-2.1+":                          "LGPL-2.1-or-later",
	"lgpl-2.1-or-later":                  "LGPL-2.1-or-later",
	"lgpl-3":                             "LGPL-3.0-only",
	"lgpl-3.0":                           "LGPL-3.0-only",
	"lgpl-3.0-only":                      "LGPL-3.0-only",
	"lgpl-3+":                            "LGPL-3.0-or-later",
	"lgpl-3.0+":                          "LGPL-3.0-or-later",
	"lgpl-3.0-or-later":                  "LGPL-3.0-or-later",
	"agpl-3":                             "AGPL-3.0-only",
	"agpl-3.0":                           "AGPL-3.0-only",
	"agpl-3.0-only":                      "AGPL-3.0-only",
	"agpl-3+":                            "AGPL-3.0-or-later",
	"agpl-3.0+":                          "AGPL-3.0-or-later",
	"agpl-3.0-or-later":                  "AGPL-3.0-or-later",
	"artistic-2":                         "Artistic-2.0",
	"artistic-2.0":                       "Artistic-2.0",
	"boost":                              "BSL-1.0",
	"bsl-1.0":                            "BSL-1.0",
	"boost software license 1.0":         "BSL-1.0",
	"python-2.0":                         "Python-2.0",
	"psf":                                "PSF-2.0",
	"psf-2.0":                            "PSF-2.0",
	"python software foundation license": "PSF-2.0",
	"epl-2.0":                            "EPL-2.0",
	"eclipse public license 2.0":         "EPL-2.0",
	"wtfpl":                              "WTFPL",
	"0bsd":                               "0BSD",
}

// licenseOperator splits compound expressions on " or " / " and ".
var licenseOperator = regexp.MustCompile(`(?i)\s+(or|and)\s+`)

// License maps common license names to SPDX identifiers. Compound "A or B"
// and "A and B" expressions are normalized per operand and kept only when
// the result is a valid SPDX expression. Anything unrecognized is returned
// unchanged apart from trimming.
func License(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if id, ok := licenseNames[strings.ToLower(s)]; ok {
		return id
	}
	if strings.ContainsAny(s, "()") {
		return s
	}

	ops := licenseOperator.FindAllStringSubmatch(s, -1)
	if len(ops) == 0 {
		return s
	}
	operands := licenseOperator.Split(s, -1)
	var b strings.Builder
	for i, operand := range operands {
		if i > 0 {
			b.WriteString(" " + strings.ToUpper(ops[i-1][1]) + " ")
		}
		if id, ok := licenseNames[strings.ToLower(operand)]; ok {
			operand = id
		}
		b.WriteString(operand)
	}
	expr := b.String()
	if ok, _ := spdxexp.ValidateLicenses([]string{expr}); ok {
		return expr
	}
	return s
}

// ValidLicense reports whether s is a valid SPDX license expression.
func ValidLicense(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	ok, _ := spdxexp.ValidateLicenses([]string{s})
	return ok
}
