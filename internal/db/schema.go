package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- CLIENT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS client SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON client TYPE string;
    DEFINE FIELD IF NOT EXISTS phone ON client TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS email ON client TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS address ON client TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS notes ON client TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created_at ON client TYPE datetime DEFAULT time::now();

    -- Phone is the dedup key for inbound channel senders
    DEFINE INDEX IF NOT EXISTS client_phone ON client FIELDS phone UNIQUE;

    -- ==========================================================================
    -- APPOINTMENT TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS appointment SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS client_id ON appointment TYPE record<client>;
    DEFINE FIELD IF NOT EXISTS title ON appointment TYPE string;
    DEFINE FIELD IF NOT EXISTS start ON appointment TYPE datetime;
    DEFINE FIELD IF NOT EXISTS end ON appointment TYPE datetime;
    DEFINE FIELD IF NOT EXISTS status ON appointment TYPE string
        ASSERT $value IN ["In Progress", "Confirmed", "Treated", "Postponed", "Canceled"];

    DEFINE INDEX IF NOT EXISTS appointment_client ON appointment FIELDS client_id;
    DEFINE INDEX IF NOT EXISTS appointment_start ON appointment FIELDS start;

    -- ==========================================================================
    -- CONVERSATION TABLE
    -- ==========================================================================
    -- Messages are embedded: the log is append-only (messages += $msg) and
    -- only the explicit bulk clear empties it.
    DEFINE TABLE IF NOT EXISTS conversation SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS client_id ON conversation TYPE record<client>;
    DEFINE FIELD IF NOT EXISTS channel ON conversation TYPE string;
    DEFINE FIELD IF NOT EXISTS messages ON conversation TYPE array<object> FLEXIBLE DEFAULT [];
    DEFINE FIELD IF NOT EXISTS unread ON conversation TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS created_at ON conversation TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON conversation TYPE datetime DEFAULT time::now();

    -- At most one conversation per (client, channel) pair
    DEFINE INDEX IF NOT EXISTS conversation_client_channel ON conversation FIELDS client_id, channel UNIQUE;

    -- ==========================================================================
    -- CHANNEL TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS channel SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON channel TYPE string;
    DEFINE FIELD IF NOT EXISTS type ON channel TYPE string;
    DEFINE FIELD IF NOT EXISTS external_id ON channel TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS enabled ON channel TYPE bool DEFAULT true;
    DEFINE FIELD IF NOT EXISTS status ON channel TYPE string DEFAULT "Active";

    -- ==========================================================================
    -- IDENTIFIER TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS identifier SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON identifier TYPE string;
    DEFINE FIELD IF NOT EXISTS tag ON identifier TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS kind ON identifier TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS status ON identifier TYPE string DEFAULT "Active";
    DEFINE FIELD IF NOT EXISTS access_token ON identifier TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS business_account_id ON identifier TYPE option<string>;

    -- ==========================================================================
    -- KNOWLEDGE FILE TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS knowledge_file SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON knowledge_file TYPE string;
    DEFINE FIELD IF NOT EXISTS mime_type ON knowledge_file TYPE string;
    DEFINE FIELD IF NOT EXISTS size ON knowledge_file TYPE int;
    DEFINE FIELD IF NOT EXISTS path ON knowledge_file TYPE string;
    DEFINE FIELD IF NOT EXISTS uploaded_at ON knowledge_file TYPE datetime DEFAULT time::now();

    -- ==========================================================================
    -- AI CONFIG TABLE (singleton, fixed record id)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS ai_config SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS knowledge_base ON ai_config TYPE string;
    DEFINE FIELD IF NOT EXISTS after_hours_reply ON ai_config TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS after_hours_enabled ON ai_config TYPE bool DEFAULT false;

    -- ==========================================================================
    -- NOTIFICATION TABLE
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS notification SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS recipient_id ON notification TYPE string;
    DEFINE FIELD IF NOT EXISTS message ON notification TYPE string;
    DEFINE FIELD IF NOT EXISTS type ON notification TYPE string;
    DEFINE FIELD IF NOT EXISTS read ON notification TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS timestamp ON notification TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS link ON notification TYPE option<string>;

    DEFINE INDEX IF NOT EXISTS notification_recipient ON notification FIELDS recipient_id;
`
