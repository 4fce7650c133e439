package models

// Profile holds the account fields a user submits at signup and may edit later.
type Profile struct {
	Image             string `json:"image" bson:"image"`
	Name              string `json:"name" bson:"name"`
	Email             string `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Phone             string `json:"phone" bson:"phone"`
	Address           string `json:"address" bson:"address"`
	Apt               string `json:"apt" bson:"apt"`
	City              string `json:"city" bson:"city"`
	State             string `json:"state" bson:"state"`
	Zipcode           string `json:"zipcode" bson:"zipcode"`
	IsBusinessOwner   bool   `json:"isBusinessOwner" bson:"isBusinessOwner"`
	SelectedRole      string `json:"selectedRole" bson:"selectedRole"`
	BusinessName      string `json:"businessName" bson:"businessName"`
	BusinessType      string `json:"businessType" bson:"businessType"`
	LicenseNumber     string `json:"licenseNumber" bson:"licenseNumber"`
	RegisteredAddress string `json:"registeredAddress" bson:"registeredAddress"`
	CompanyName       string `json:"companyName" bson:"companyName"`
	ServicableRegions string `json:"servicableRegions" bson:"servicableRegions"`
}

// User represents a registered account of the store.
type User struct {
	ID       string `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Profile  `bson:",inline" gorm:"embedded"`
	Password string `json:"-" bson:"password" gorm:"type:varchar(255)"` // bcrypt hash
	IsAdmin  bool   `json:"isAdmin" bson:"isAdmin" gorm:"not null;default:false"`
}

// UserView is the projection of a user that is safe to send to clients.
type UserView struct {
	ID string `json:"_id"`
	Profile
}

// View strips the password hash and the admin flag.
func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Profile: u.Profile}
}

// SignupRequest is the body accepted by the signup endpoint.
// ConfirmPassword is accepted for client compatibility and never stored.
type SignupRequest struct {
	Profile
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserPatch carries a partial profile update. Nil fields are left untouched.
type UserPatch struct {
	Image             *string `json:"image"`
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Apt               *string `json:"apt"`
	City              *string `json:"city"`
	State             *string `json:"state"`
	Zipcode           *string `json:"zipcode"`
	IsBusinessOwner   *bool   `json:"isBusinessOwner"`
	SelectedRole      *string `json:"selectedRole"`
	BusinessName      *string `json:"businessName"`
	BusinessType      *string `json:"businessType"`
	LicenseNumber     *string `json:"licenseNumber"`
	RegisteredAddress *string `json:"registeredAddress"`
	CompanyName       *string `json:"companyName"`
	ServicableRegions *string `json:"servicableRegions"`
	Password          *string `json:"password"`
}

// Changes returns the set fields keyed by their document field name.
func (p UserPatch) Changes() map[string]any {
	changes := make(map[string]any)
	setString := func(key string, v *string) {
		if v != nil {
			changes[key] = *v
		}
	}
	setString("image", p.Image)
	setString("name", p.Name)
	setString("email", p.Email)
	setString("phone", p.Phone)
	setString("address", p.Address)
	setString("apt", p.Apt)
	setString("city", p.City)
	setString("state", p.State)
	setString("zipcode", p.Zipcode)
	if p.IsBusinessOwner != nil {
		changes["isBusinessOwner"] = *p.IsBusinessOwner
	}
	setString("selectedRole", p.SelectedRole)
	setString("businessName", p.BusinessName)
	setString("businessType", p.BusinessType)
	setString("licenseNumber", p.LicenseNumber)
	setString("registeredAddress", p.RegisteredAddress)
	setString("companyName", p.CompanyName)
	setString("servicableRegions", p.ServicableRegions)
	setString("password", p.Password)
	return changes
}

// Apply writes the set fields of the patch onto u.
func (p UserPatch) Apply(u *User) {
	assign := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	assign(&u.Image, p.Image)
	assign(&u.Name, p.Name)
	assign(&u.Email, p.Email)
	assign(&u.Phone, p.Phone)
	assign(&u.Address, p.Address)
	assign(&u.Apt, p.Apt)
	assign(&u.City, p.City)
	assign(&u.State, p.State)
	assign(&u.Zipcode, p.Zipcode)
	if p.IsBusinessOwner != nil {
		u.IsBusinessOwner = *p.IsBusinessOwner
	}
	assign(&u.SelectedRole, p.SelectedRole)
	assign(&u.BusinessName, p.BusinessName)
	assign(&u.BusinessType, p.BusinessType)
	assign(&u.LicenseNumber, p.LicenseNumber)
	assign(&u.RegisteredAddress, p.RegisteredAddress)
	assign(&u.CompanyName, p.CompanyName)
	assign(&u.ServicableRegions, p.ServicableRegions)
	assign(&u.Password, p.Password)
}
