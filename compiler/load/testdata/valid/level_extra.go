package valid

// Error is declared apart from the other levels.
const Error Level = 8
