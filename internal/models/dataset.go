package models

// Sequences holds the last id handed out for each collection.
type Sequences struct {
	Users              int `json:"users"`
	CollectionRequests int `json:"collectionRequests"`
	Coupons            int `json:"coupons"`
}

// Dataset is the whole persisted document.
type Dataset struct {
	Users              []User              `json:"users"`
	CollectionRequests []CollectionRequest `json:"collectionRequests"`
	Coupons            []Coupon            `json:"coupons"`
	Sequences          Sequences           `json:"sequences"`
}

// NewDataset returns an empty dataset with non-nil collections.
func NewDataset() *Dataset {
	return &Dataset{
		Users:              []User{},
		CollectionRequests: []CollectionRequest{},
		Coupons:            []Coupon{},
	}
}

// Normalize replaces nil collections with empty ones and raises every sequence to at least the
// highest id already present, so documents written without sequences keep issuing fresh ids.
func (d *Dataset) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.CollectionRequests == nil {
		d.CollectionRequests = []CollectionRequest{}
	}
	if d.Coupons == nil {
		d.Coupons = []Coupon{}
	}
	for _, u := range d.Users {
		d.Sequences.Users = max(d.Sequences.Users, u.ID)
	}
	for _, r := range d.CollectionRequests {
		d.Sequences.CollectionRequests = max(d.Sequences.CollectionRequests, r.ID)
	}
	for _, c := range d.Coupons {
		d.Sequences.Coupons = max(d.Sequences.Coupons, c.ID)
	}
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	return &Dataset{
		Users:              append([]User{}, d.Users...),
		CollectionRequests: append([]CollectionRequest{}, d.CollectionRequests...),
		Coupons:            append([]Coupon{}, d.Coupons...),
		Sequences:          d.Sequences,
	}
}

// NextUserID advances the user sequence and returns the new id.
func (d *Dataset) NextUserID() int {
	d.Sequences.Users++
	return d.Sequences.Users
}

// NextCollectionRequestID advances the collection request sequence and returns the new id.
func (d *Dataset) NextCollectionRequestID() int {
	d.Sequences.CollectionRequests++
	return d.Sequences.CollectionRequests
}

// NextCouponID advances the coupon sequence and returns the new id.
func (d *Dataset) NextCouponID() int {
	d.Sequences.Coupons++
	return d.Sequences.Coupons
}

// FindUserByID returns a pointer into Users, or nil.
func (d *Dataset) FindUserByID(id int) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByEmail returns a pointer into Users for an exact email match, or nil.
func (d *Dataset) FindUserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// FindCollectionRequestByID returns a pointer into CollectionRequests, or nil.
func (d *Dataset) FindCollectionRequestByID(id int) *CollectionRequest {
	for i := range d.CollectionRequests {
		if d.CollectionRequests[i].ID == id {
			return &d.CollectionRequests[i]
		}
	}
	return nil
}
