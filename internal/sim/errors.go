package sim

import "errors"

// ErrInvalidConfiguration indicates the balance configuration or region
// catalog cannot support a run. The engine is not created.
var ErrInvalidConfiguration = errors.New("invalid simulation configuration")

// ErrInvalidRegion indicates a request referenced an unknown region id.
var ErrInvalidRegion = errors.New("unknown region")

// ErrProvinceFullyInfected indicates a build was rejected because the
// target province is past the fully-infected threshold.
var ErrProvinceFullyInfected = errors.New("province fully infected")

// ErrNotEnoughCurrency indicates a build was rejected because the shared
// balance cannot cover the cost. The cost is still reported so the UI
// can display it.
var ErrNotEnoughCurrency = errors.New("not enough currency")

// ErrNegativeDelta indicates a time tick carried a negative elapsed
// duration. The step is not applied.
var ErrNegativeDelta = errors.New("negative time delta")

// ErrInvalidDay indicates a time tick carried a day index below 1.
var ErrInvalidDay = errors.New("day index must be at least 1")
