// Package tracker keeps the record of bitcoin purchases of a single user and
// derives the performance of the investment from them.
//
// The core functionalities include:
//   - Entry: purchases are typed as free text, numbers in either the
//     "1,234.56" or the "1.234,56" convention and dates as DD/MM/YYYY, see
//     ParsePurchase and the numeric and date packages.
//   - Ledger: the purchases and the user settings, persisted as JSONL with
//     EncodeLedger and DecodeLedger.
//   - Metrics: ComputeMetrics derives cost basis, value, profit, ROI,
//     break-even price and the interest earned over a manual balance. It is a
//     pure function of the purchases, the settings and the price.
//   - Prices: CoinGecko fetches the live and historical bitcoin price.
//
// Amounts are exact decimals, Money for dollars and Quantity for bitcoins.
package tracker
