// Package models holds the GORM models behind the payroll ledger tables.
// Domain types stay free of ORM tags; each model converts to and from its
// domain counterpart with ToDomain and a ...FromDomain constructor.
//
//   - base.go: tenant-scoped aggregate columns shared by every table
//   - ledger.go: accounts and the transaction log
//   - employee.go: employees, employee ledgers, settings, cost-center postings
//   - payroll.go: payrolls, vouchers and group payrolls
//   - outbox.go: outbox entries for event delivery
package models
