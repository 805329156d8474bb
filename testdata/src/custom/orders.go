package custom

type Orders struct{}

func (o *Orders) CreateOrder() error { // want `method Orders.CreateOrder would be instrumented as plain span "shop.Orders.CreateOrder"`
	return nil
}

func (o *Orders) DeleteOrder() error {
	return nil
}

func (o *Orders) cancel1() {} // want `method Orders.cancel1 would be instrumented as plain span "shop.Orders.cancel1"`

func (o *Orders) cancelAll() {}
