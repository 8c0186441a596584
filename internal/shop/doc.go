// Package shop provides the foundational catalog types shared by the cart,
// checkout, and catalog packages.
//
// This package contains type definitions only. All other internal packages
// import shop; shop imports nothing internal.
//
// Key design constraints:
//   - Prices are IDR per meter of fabric, stored as float64
//   - Every LocalizedText carries an "en" entry or falls back to "id"
//   - JSON tags match the persisted cart snapshot layout (camelCase)
package shop
