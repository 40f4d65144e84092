package contractor

type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Category string `json:"category" validate:"required,oneof=running-group sports-training"`
	Color    string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Category *string `json:"category" validate:"omitempty,oneof=running-group sports-training"`
	Color    *string `json:"color" validate:"omitempty,hexcolor,len=7"`
}
