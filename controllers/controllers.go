package controllers

import (
	"github.com/go-playground/validator/v10"

	"github.com/controlapag/controlapag-api/gateway"
)

var validate = validator.New()

// Gateway is wired at startup; tests may swap in a fake.
var Gateway gateway.PaymentGateway
