package model

import "time"

// Company is the top-level tenant: every office, company user and booking
// is scoped to exactly one company.  ShortName feeds the notification
// subject short-codes and should stay free of underscores.
type Company struct {
	ID           uint64     // companies.id
	Name         string     // companies.name
	ShortName    string     // companies.short_name
	ContactName  string     // companies.contact_name
	ContactEmail string     // companies.contact_email
	ContactPhone string     // companies.contact_phone
	IsActive     bool       // companies.is_active
	CreatedAt    time.Time  // companies.created_at
	UpdatedAt    time.Time  // companies.updated_at
	DeletedAt    *time.Time // companies.deleted_at (nullable)
}

// CompanyOffice is one physical office of a company.  Bookings are raised
// per office and SPOC fields name the on-site point of contact.
type CompanyOffice struct {
	ID        uint64     // company_offices.id
	CompanyID uint64     // company_offices.company_id
	Name      string     // company_offices.name
	Address1  string     // company_offices.address1
	Address2  string     // company_offices.address2
	City      string     // company_offices.city
	State     string     // company_offices.state
	Pincode   string     // company_offices.pincode
	SpocName  string     // company_offices.spoc_name
	SpocEmail string     // company_offices.spoc_email
	SpocPhone string     // company_offices.spoc_phone
	IsActive  bool       // company_offices.is_active
	CreatedAt time.Time  // company_offices.created_at
	UpdatedAt time.Time  // company_offices.updated_at
	DeletedAt *time.Time // company_offices.deleted_at (nullable)
}

// CompanyUser is a portal user belonging to a company.  Office affiliation
// is a proper many-to-many through the company_user_offices join table;
// OfficeIDs is populated by the repository from those rows.
type CompanyUser struct {
	ID           uint64     // company_users.id
	CompanyID    uint64     // company_users.company_id
	Name         string     // company_users.name
	Email        string     // company_users.email (unique)
	Phone        string     // company_users.phone
	PasswordHash string     // company_users.password_hash
	IsActive     bool       // company_users.is_active
	OfficeIDs    []uint64   // from company_user_offices join rows
	CreatedAt    time.Time  // company_users.created_at
	UpdatedAt    time.Time  // company_users.updated_at
	DeletedAt    *time.Time // company_users.deleted_at (nullable)
}
