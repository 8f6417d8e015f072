package banks

import "strings"

// NewBank is the admin input for registering a receiving account.
type NewBank struct {
	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	Logo          string `json:"logo"`
}

// DirectoryEntry is a bank the admin form knows how to fill in.
type DirectoryEntry struct {
	Name      string `json:"name"`
	BIN       string `json:"bin"`
	ShortCode string `json:"shortCode"`
}

// Logo is the conventional logo file for the entry.
func (e DirectoryEntry) Logo() string {
	return strings.ToLower(e.ShortCode) + ".png"
}

var directory = []DirectoryEntry{
	{Name: "MBBANK", BIN: "970422", ShortCode: "MB"},
	{Name: "VietinBank", BIN: "970415", ShortCode: "CTG"},
	{Name: "Techcombank", BIN: "970407", ShortCode: "TCB"},
	{Name: "Vietcombank", BIN: "970436", ShortCode: "VCB"},
	{Name: "BIDV", BIN: "970418", ShortCode: "BIDV"},
	{Name: "VPBank", BIN: "970432", ShortCode: "VPB"},
	{Name: "Agribank", BIN: "970405", ShortCode: "VBA"},
	{Name: "ACB", BIN: "970416", ShortCode: "ACB"},
}

// Directory returns a copy of the known-bank list.
func Directory() []DirectoryEntry {
	out := make([]DirectoryEntry, len(directory))
	copy(out, directory)

	return out
}

// LookupDirectory finds a known bank by name, ignoring case.
func LookupDirectory(name string) (DirectoryEntry, bool) {
	for _, e := range directory {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}

	return DirectoryEntry{}, false
}
