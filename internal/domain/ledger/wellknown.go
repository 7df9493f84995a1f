package ledger

// Well-known account names resolved by posting
const (
	AccountSalaryPayable   = "Salary Payable"
	AccountSalaryAndWages  = "Salary and wages"
	AccountEmployeeAdvance = "Employee Advance"
	AccountEmployeeLoan    = "Employee Loan"
)

// AccountSpec describes an account an organization must provision
type AccountSpec struct {
	Name string
	Type AccountType
}

// RequiredAccounts lists the accounts every organization needs before
// payroll can post
var RequiredAccounts = []AccountSpec{
	{Name: AccountSalaryPayable, Type: AccountTypePayable},
	{Name: AccountSalaryAndWages, Type: AccountTypeExpense},
	{Name: AccountEmployeeAdvance, Type: AccountTypeExpense},
	{Name: AccountEmployeeLoan, Type: AccountTypeExpense},
}

// MissingAccounts returns the required specs absent from accounts.
// An account with the right name but the wrong type counts as missing.
func MissingAccounts(accounts []*Account) []AccountSpec {
	byName := make(map[string]*Account, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	missing := make([]AccountSpec, 0)
	for _, spec := range RequiredAccounts {
		a, ok := byName[spec.Name]
		if !ok || a.Type != spec.Type {
			missing = append(missing, spec)
		}
	}
	return missing
}
