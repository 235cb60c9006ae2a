package domain

import "fmt"

// SettingPriceInterval is the settings key holding the price tick interval.
const SettingPriceInterval = "price_update_interval"

// PriceInterval governs how often the price recomputation task runs.
// The scheduler re-reads it on a slow cadence so admin changes take
// effect without a process restart.
type PriceInterval struct {
	Minutes int `json:"minutes"`
}

func (pi PriceInterval) Validate() error {
	if pi.Minutes < 1 || pi.Minutes > 60 {
		return fmt.Errorf("%w: price interval %d minutes out of range [1,60]", ErrInvalidSetting, pi.Minutes)
	}
	return nil
}
