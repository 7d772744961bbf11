package domain

import "time"

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Location struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"companyID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Position struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
