package domain

// Commission rates are carried in basis points so the split stays in exact
// integer arithmetic end to end.
const bpsDenominator = 10000

// SplitCommission divides price into the platform fee and the seller's net
// proceeds. rateBps must be in [0, 10000): a rate of 100% or more would leave
// the seller with nothing to settle. The fee is rounded half up to the minor
// unit and the two parts always sum back to price exactly.
func SplitCommission(price Money, rateBps int32) (fee, sellerNet Money, err error) {
	if rateBps < 0 || rateBps >= bpsDenominator {
		return 0, 0, ErrInvalidCommissionRate
	}

	raw := int64(price) * int64(rateBps)
	fee = Money((raw + bpsDenominator/2) / bpsDenominator)
	return fee, price - fee, nil
}
