package domain

// User is the profile record served by the backend employees endpoint.
// Store, salary and start date are only present for some roles.
type User struct {
	UserID      int64    `json:"userId"`
	UserName    string   `json:"userName"`
	Mail        string   `json:"mail"`
	DateOfBirth string   `json:"dateOfBirth"`
	Role        Role     `json:"role"`
	StoreID     *int64   `json:"storeId,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
	DateStarted *string  `json:"dateStarted,omitempty"`
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.StoreID != nil {
		v := *u.StoreID
		cp.StoreID = &v
	}
	if u.Salary != nil {
		v := *u.Salary
		cp.Salary = &v
	}
	if u.DateStarted != nil {
		v := *u.DateStarted
		cp.DateStarted = &v
	}
	return &cp
}

// ProfilePatch carries the editable subset of a profile. Nil fields are left untouched.
// Password is forwarded to the backend but never kept locally.
type ProfilePatch struct {
	UserName    *string  `json:"userName,omitempty"`
	Mail        *string  `json:"mail,omitempty"`
	Password    *string  `json:"password,omitempty"`
	DateOfBirth *string  `json:"dateOfBirth,omitempty"`
	StoreID     *int64   `json:"storeId,omitempty"`
	Salary      *float64 `json:"salary,omitempty"`
	DateStarted *string  `json:"dateStarted,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.UserName == nil && p.Mail == nil && p.Password == nil && p.DateOfBirth == nil &&
		p.StoreID == nil && p.Salary == nil && p.DateStarted == nil
}

// ApplyTo merges the patch into u in place.
func (p ProfilePatch) ApplyTo(u *User) {
	if u == nil {
		return
	}
	if p.UserName != nil {
		u.UserName = *p.UserName
	}
	if p.Mail != nil {
		u.Mail = *p.Mail
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
	if p.StoreID != nil {
		v := *p.StoreID
		u.StoreID = &v
	}
	if p.Salary != nil {
		v := *p.Salary
		u.Salary = &v
	}
	if p.DateStarted != nil {
		v := *p.DateStarted
		u.DateStarted = &v
	}
}
