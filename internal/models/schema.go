package models

// Database schema
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL,
    comp_type VARCHAR(20),
    teacher_pct INT NOT NULL DEFAULT 0,
    fixed_salary BIGINT NOT NULL DEFAULT 0,
    bonus BIGINT NOT NULL DEFAULT 0,
    balance_floating BIGINT NOT NULL DEFAULT 0,
    balance_verified BIGINT NOT NULL DEFAULT 0 CHECK (balance_verified >= 0),
    balance_pending BIGINT NOT NULL DEFAULT 0 CHECK (balance_pending >= 0),
    total_paid BIGINT NOT NULL DEFAULT 0,
    version BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS students (
    id VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL,
    teacher_id VARCHAR(36) REFERENCES accounts(id),
    total_fee BIGINT NOT NULL DEFAULT 0,
    paid_amount BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS fee_records (
    id VARCHAR(36) PRIMARY KEY,
    student_id VARCHAR(36) NOT NULL REFERENCES students(id),
    teacher_id VARCHAR(36) REFERENCES accounts(id),
    collected_by VARCHAR(36) NOT NULL REFERENCES accounts(id),
    amount BIGINT NOT NULL CHECK (amount > 0),
    period VARCHAR(20) NOT NULL,
    distributed BOOLEAN NOT NULL DEFAULT FALSE,
    teacher_share BIGINT,
    academy_share BIGINT,
    teacher_pct INT,
    academy_pct INT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
    id VARCHAR(36) PRIMARY KEY,
    seq BIGSERIAL,
    kind VARCHAR(10) NOT NULL,
    category VARCHAR(40) NOT NULL,
    amount BIGINT NOT NULL CHECK (amount > 0),
    description TEXT,
    occurred_at TIMESTAMP NOT NULL DEFAULT NOW(),
    status VARCHAR(10) NOT NULL,
    account_id VARCHAR(36) NOT NULL REFERENCES accounts(id),
    bucket VARCHAR(10) NOT NULL,
    collected_by VARCHAR(36),
    student_id VARCHAR(36),
    fee_record_id VARCHAR(36),
    voucher_id VARCHAR(40),
    teacher_share BIGINT,
    academy_share BIGINT,
    teacher_pct INT,
    academy_pct INT,
    split_teacher_id VARCHAR(36)
);
CREATE INDEX IF NOT EXISTS idx_txn_status_collector ON transactions(status, collected_by);
CREATE INDEX IF NOT EXISTS idx_txn_fee_record ON transactions(fee_record_id);
CREATE INDEX IF NOT EXISTS idx_txn_occurred ON transactions(occurred_at);
CREATE INDEX IF NOT EXISTS idx_txn_account ON transactions(account_id);

CREATE TABLE IF NOT EXISTS expenses (
    id VARCHAR(36) PRIMARY KEY,
    title TEXT NOT NULL,
    category VARCHAR(40) NOT NULL,
    amount BIGINT NOT NULL CHECK (amount > 0),
    vendor TEXT,
    status VARCHAR(10) NOT NULL,
    paid_by VARCHAR(36),
    paid_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS teacher_payments (
    id VARCHAR(36) PRIMARY KEY,
    voucher_id VARCHAR(40) NOT NULL UNIQUE,
    teacher_id VARCHAR(36) NOT NULL REFERENCES accounts(id),
    amount_paid BIGINT NOT NULL CHECK (amount_paid > 0),
    bucket VARCHAR(10) NOT NULL,
    balance_before BIGINT NOT NULL,
    balance_after BIGINT NOT NULL,
    description TEXT,
    paid_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_voucher_teacher ON teacher_payments(teacher_id);

CREATE TABLE IF NOT EXISTS daily_closings (
    id VARCHAR(36) PRIMARY KEY,
    closed_by VARCHAR(36) NOT NULL REFERENCES accounts(id),
    total_locked BIGINT NOT NULL,
    txn_count INT NOT NULL,
    notes TEXT,
    closed_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS salary_accruals (
    teacher_id VARCHAR(36) NOT NULL REFERENCES accounts(id),
    period VARCHAR(20) NOT NULL,
    amount BIGINT NOT NULL,
    accrued_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (teacher_id, period)
);

CREATE TABLE IF NOT EXISTS reconciliation_reports (
    id VARCHAR(36) PRIMARY KEY,
    job VARCHAR(40) NOT NULL,
    processed INT NOT NULL,
    succeeded INT NOT NULL,
    skipped INT NOT NULL,
    failed INT NOT NULL,
    failure_reasons TEXT[],
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP NOT NULL
);
`
