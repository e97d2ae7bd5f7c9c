package models

// CouponCost is the number of points spent on every redeemed coupon.
const CouponCost = 20

// Coupon is a reward issued in exchange for points. Coupons are never modified once created.
type Coupon struct {
	ID             int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID         int    `json:"userId" gorm:"index;not null"`
	Type           string `json:"type" gorm:"type:varchar(100)"`
	PointsRedeemed int    `json:"pointsRedeemed"`
}
